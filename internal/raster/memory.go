package raster

import (
	"fmt"
	"maps"
	"math"
	"sync"

	"github.com/paulmach/orb"
)

// MemDataset is a raster held entirely in memory.
// Pixel values are stored as float64 and are expected to already be
// representable in the band's DataType.
type MemDataset struct {
	path     string
	profile  Profile
	metadata map[string]string
	bands    []*MemBand
}

// NewMemDataset allocates a zero-filled raster described by p.
// Every band gets p.DataType and p.Nodata; BlockWidth/BlockHeight default
// to the full width and a single row.
func NewMemDataset(p Profile) (*MemDataset, error) {
	if p.Width <= 0 || p.Height <= 0 || p.Bands <= 0 {
		return nil, fmt.Errorf("%w: %dx%d with %d bands", ErrInvalidProfile, p.Width, p.Height, p.Bands)
	}
	if p.Transform == (Transform{}) {
		p.Transform = IdentityTransform
	}
	ds := &MemDataset{
		profile:  p,
		metadata: map[string]string{},
		bands:    make([]*MemBand, p.Bands),
	}
	for i := range ds.bands {
		ds.bands[i] = &MemBand{
			dataType:    p.DataType,
			nodata:      p.Nodata,
			width:       p.Width,
			height:      p.Height,
			blockWidth:  p.BlockWidth,
			blockHeight: p.BlockHeight,
			data:        make([]float64, p.Width*p.Height),
			metadata:    map[string]string{},
		}
	}
	return ds, nil
}

// MustMemDataset is like NewMemDataset but fills the bands from values and
// panics on error. It is meant for tests and fixtures.
func MustMemDataset(p Profile, values ...[]float64) *MemDataset {
	ds, err := NewMemDataset(p)
	if err != nil {
		panic(err)
	}
	for i, v := range values {
		if err := ds.SetBand(i+1, v); err != nil {
			panic(err)
		}
	}
	return ds
}

// SetBand replaces the pixels of the 1-based band i with a copy of values.
func (d *MemDataset) SetBand(i int, values []float64) error {
	b, err := d.memBand(i)
	if err != nil {
		return err
	}
	if len(values) != len(b.data) {
		return fmt.Errorf("%w: band %d needs %d values, got %d", ErrBufferSize, i, len(b.data), len(values))
	}
	copy(b.data, values)
	return nil
}

// SetMetadata replaces the dataset-level tags.
func (d *MemDataset) SetMetadata(md map[string]string) {
	d.metadata = maps.Clone(md)
}

// MemBand returns the concrete band at the 1-based index i.
func (d *MemDataset) MemBand(i int) (*MemBand, error) {
	return d.memBand(i)
}

func (d *MemDataset) memBand(i int) (*MemBand, error) {
	if i < 1 || i > len(d.bands) {
		return nil, fmt.Errorf("%w: %d (dataset has %d bands)", ErrBandIndex, i, len(d.bands))
	}
	return d.bands[i-1], nil
}

// Path implements Dataset.
func (d *MemDataset) Path() string { return d.path }

// Width implements Dataset.
func (d *MemDataset) Width() int { return d.profile.Width }

// Height implements Dataset.
func (d *MemDataset) Height() int { return d.profile.Height }

// BandCount implements Dataset.
func (d *MemDataset) BandCount() int { return len(d.bands) }

// Transform implements Dataset.
func (d *MemDataset) Transform() Transform { return d.profile.Transform }

// CRS implements Dataset.
func (d *MemDataset) CRS() CRS { return d.profile.CRS }

// Bounds implements Dataset.
func (d *MemDataset) Bounds() orb.Bound {
	return d.profile.Transform.Bounds(d.profile.Width, d.profile.Height)
}

// Metadata implements Dataset.
func (d *MemDataset) Metadata() map[string]string { return maps.Clone(d.metadata) }

// Band implements Dataset.
func (d *MemDataset) Band(i int) (Band, error) {
	b, err := d.memBand(i)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Close implements Dataset. A MemDataset has nothing to release.
func (d *MemDataset) Close() error { return nil }

// MemBand is one band of a MemDataset.
type MemBand struct {
	dataType    DataType
	nodata      Nodata
	width       int
	height      int
	blockWidth  int
	blockHeight int
	data        []float64
	metadata    map[string]string
	readErr     error
}

// SetNodata changes the band's sentinel.
func (b *MemBand) SetNodata(nd Nodata) { b.nodata = nd }

// SetDataType changes the band's declared pixel type.
func (b *MemBand) SetDataType(dt DataType) { b.dataType = dt }

// SetBlockSize changes the native block layout reported by Windows.
func (b *MemBand) SetBlockSize(width, height int) {
	b.blockWidth, b.blockHeight = width, height
}

// SetMetadata replaces the band-level tags.
func (b *MemBand) SetMetadata(md map[string]string) { b.metadata = maps.Clone(md) }

// FailReads makes every subsequent Read return err.
func (b *MemBand) FailReads(err error) { b.readErr = err }

// Values returns a copy of the band's pixels.
func (b *MemBand) Values() []float64 { return append([]float64(nil), b.data...) }

// DataType implements Band.
func (b *MemBand) DataType() DataType { return b.dataType }

// Nodata implements Band.
func (b *MemBand) Nodata() Nodata { return b.nodata }

// Size implements Band.
func (b *MemBand) Size() (int, int) { return b.width, b.height }

// Windows implements Band.
func (b *MemBand) Windows() []Window {
	return BlockWindows(b.width, b.height, b.blockWidth, b.blockHeight)
}

// Read implements Band.
func (b *MemBand) Read(w Window, buf []float64) error {
	if b.readErr != nil {
		return b.readErr
	}
	if !w.Within(b.width, b.height) {
		return fmt.Errorf("%w: %+v in %dx%d", ErrWindow, w, b.width, b.height)
	}
	if len(buf) < w.Size() {
		return fmt.Errorf("%w: need %d, have %d", ErrBufferSize, w.Size(), len(buf))
	}
	for r := 0; r < w.Height; r++ {
		src := (w.Row+r)*b.width + w.Col
		copy(buf[r*w.Width:(r+1)*w.Width], b.data[src:src+w.Width])
	}
	return nil
}

// Metadata implements Band.
func (b *MemBand) Metadata() map[string]string { return maps.Clone(b.metadata) }

// Statistics implements Band. Nodata and NaN cells are skipped and the
// population standard deviation is reported, as GDAL does.
func (b *MemBand) Statistics() (Statistics, error) {
	var (
		nd   float64
		ndOK bool
	)
	if b.nodata.Valid {
		nd, ndOK = b.dataType.Native(b.nodata.Value)
	}
	var (
		n          int
		sum, sumSq float64
		st         = Statistics{Min: math.Inf(1), Max: math.Inf(-1)}
	)
	for _, v := range b.data {
		if math.IsNaN(v) || (ndOK && v == nd) {
			continue
		}
		n++
		sum += v
		sumSq += v * v
		st.Min = math.Min(st.Min, v)
		st.Max = math.Max(st.Max, v)
	}
	if n == 0 {
		return Statistics{}, ErrNoValidPixels
	}
	st.Mean = sum / float64(n)
	st.Std = math.Sqrt(math.Max(0, sumSq/float64(n)-st.Mean*st.Mean))
	return st, nil
}

// MemDriver is a Driver over an in-memory catalogue of rasters keyed by path.
// It is safe for concurrent use and counts open handles so tests can assert
// that every Open was matched by a Close.
type MemDriver struct {
	mu        sync.Mutex
	datasets  map[string]*MemDataset
	open      int
	createErr error
}

// NewMemDriver returns an empty driver.
func NewMemDriver() *MemDriver {
	return &MemDriver{datasets: make(map[string]*MemDataset)}
}

// Add registers ds under path, replacing any previous entry.
func (m *MemDriver) Add(path string, ds *MemDataset) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ds.path = path
	m.datasets[path] = ds
}

// Get returns the dataset registered under path.
func (m *MemDriver) Get(path string) (*MemDataset, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ds, ok := m.datasets[path]
	return ds, ok
}

// OpenHandles returns the number of handles opened and not yet closed.
func (m *MemDriver) OpenHandles() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

// FailCreates makes every subsequent Create return err.
func (m *MemDriver) FailCreates(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createErr = err
}

// Open implements Driver.
func (m *MemDriver) Open(path string) (Dataset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ds, ok := m.datasets[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	m.open++
	return &memHandle{MemDataset: ds, driver: m}, nil
}

// Create implements Driver. The raster becomes visible to Open once the
// returned Writer is closed.
func (m *MemDriver) Create(path string, p Profile) (Writer, error) {
	m.mu.Lock()
	err := m.createErr
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	ds, err := NewMemDataset(p)
	if err != nil {
		return nil, err
	}
	return &memWriter{driver: m, path: path, ds: ds}, nil
}

// memHandle is an open view on a registered MemDataset.
type memHandle struct {
	*MemDataset
	driver *MemDriver
	once   sync.Once
}

func (h *memHandle) Close() error {
	h.once.Do(func() {
		h.driver.mu.Lock()
		h.driver.open--
		h.driver.mu.Unlock()
	})
	return nil
}

type memWriter struct {
	driver *MemDriver
	path   string
	ds     *MemDataset
}

func (w *memWriter) WriteBand(i int, data []float32) error {
	values := make([]float64, len(data))
	for j, v := range data {
		values[j] = float64(v)
	}
	return w.ds.SetBand(i, values)
}

func (w *memWriter) Close() error {
	w.driver.Add(w.path, w.ds)
	return nil
}

package compare

import (
	"errors"
	"fmt"

	"github.com/nao1215/riodiff/internal/model"
	"github.com/nao1215/riodiff/internal/raster"
)

// ReadProps reads the structural properties of an open raster.
// The data type and nodata sentinel are those of the first band. A band
// without valid cells gets zero statistics with Valid=false.
func ReadProps(ds raster.Dataset) (model.RasterProps, error) {
	props := model.RasterProps{
		Width:         ds.Width(),
		Height:        ds.Height(),
		Bands:         ds.BandCount(),
		BBox:          ds.Bounds(),
		CRS:           ds.CRS(),
		Transform:     ds.Transform(),
		Metadata:      ds.Metadata(),
		BandsMetadata: make([]map[string]string, 0, ds.BandCount()),
		Stats:         make([]model.BandStatistics, 0, ds.BandCount()),
	}

	for i := 1; i <= ds.BandCount(); i++ {
		band, err := ds.Band(i)
		if err != nil {
			return model.RasterProps{}, fmt.Errorf("%w: %s: %w", ErrReadProps, ds.Path(), err)
		}
		if i == 1 {
			props.DataType = band.DataType()
			props.Nodata = band.Nodata()
		}
		props.BandsMetadata = append(props.BandsMetadata, band.Metadata())

		st, err := band.Statistics()
		switch {
		case errors.Is(err, raster.ErrNoValidPixels):
			props.Stats = append(props.Stats, model.BandStatistics{})
		case err != nil:
			return model.RasterProps{}, fmt.Errorf("%w: %s band %d statistics: %w", ErrReadProps, ds.Path(), i, err)
		default:
			props.Stats = append(props.Stats, model.BandStatistics{
				Min:   st.Min,
				Max:   st.Max,
				Mean:  st.Mean,
				Std:   st.Std,
				Valid: true,
			})
		}
	}
	return props, nil
}

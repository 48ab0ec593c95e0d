package raster

// BlockWindows tiles a width x height grid with blockWidth x blockHeight
// windows, row of blocks by row of blocks, left to right. Edge windows are
// clipped to the grid. Non-positive block sizes fall back to one full row
// per window, which is how GDAL lays out striped rasters.
func BlockWindows(width, height, blockWidth, blockHeight int) []Window {
	if width <= 0 || height <= 0 {
		return nil
	}
	if blockWidth <= 0 || blockWidth > width {
		blockWidth = width
	}
	if blockHeight <= 0 {
		blockHeight = 1
	}
	if blockHeight > height {
		blockHeight = height
	}

	rows := (height + blockHeight - 1) / blockHeight
	cols := (width + blockWidth - 1) / blockWidth
	windows := make([]Window, 0, rows*cols)
	for row := 0; row < height; row += blockHeight {
		h := min(blockHeight, height-row)
		for col := 0; col < width; col += blockWidth {
			windows = append(windows, Window{
				Row:    row,
				Col:    col,
				Height: h,
				Width:  min(blockWidth, width-col),
			})
		}
	}
	return windows
}

// MaxWindowSize returns the largest cell count among windows.
// Callers use it to size one reusable read buffer per band.
func MaxWindowSize(windows []Window) int {
	n := 0
	for _, w := range windows {
		n = max(n, w.Size())
	}
	return n
}

package geometry

// Grid is the raster surface a polygon is masked against. A scene
// satisfies it through its geotransform.
type Grid interface {
	Size() (width, height int)
	CellCenter(col, row int) (lat, lon float64)
}

// Cell is one grid cell whose center fell inside the polygon.
type Cell struct {
	Col int
	Row int
	Lat float64
	Lon float64
}

// Mask returns every grid cell whose center lies inside the polygon, in
// row-major order so downstream reductions are reproducible. An empty
// result is valid: the polygon may be smaller than one pixel.
func Mask(polygon Polygon, grid Grid) []Cell {
	width, height := grid.Size()
	var cells []Cell
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			lat, lon := grid.CellCenter(col, row)
			if polygon.Contains(lat, lon) {
				cells = append(cells, Cell{Col: col, Row: row, Lat: lat, Lon: lon})
			}
		}
	}
	return cells
}

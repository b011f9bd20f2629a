package grid

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"lintang/searoute/pkg/datastructure"
)

var ErrInvalidNodeList = errors.New("grid: invalid navigable node list")

// ReadNodeList parse "lat,lon" rows produced by the land/bathymetry preprocessing and
// snap them onto the lattice of resolution res. A non-numeric first row is a header.
func ReadNodeList(r io.Reader, res float64) ([]datastructure.Coordinate, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = 2
	reader.Comment = '#'

	nodes := []datastructure.Coordinate{}
	for line := 1; ; line++ {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidNodeList, err)
		}

		lat, errLat := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
		lon, errLon := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if errLat != nil || errLon != nil {
			if line == 1 {
				continue
			}
			return nil, fmt.Errorf("%w: line %d: %q", ErrInvalidNodeList, line, strings.Join(rec, ","))
		}
		if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			return nil, fmt.Errorf("%w: line %d: coordinate out of range", ErrInvalidNodeList, line)
		}
		nodes = append(nodes, SnapToGrid(datastructure.NewCoordinate(lat, lon), res))
	}
	return nodes, nil
}

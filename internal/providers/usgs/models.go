package usgs

// noDataValue is returned by EPQS for points outside its coverage
const noDataValue = -1000000

type ElevationPointAPIResponse struct {
	Location struct {
		X                float64 `json:"x"`
		Y                float64 `json:"y"`
		SpatialReference struct {
			Wkid       int `json:"wkid"`
			LatestWkid int `json:"latestWkid"`
		} `json:"spatialReference"`
	} `json:"location"`
	LocationId int     `json:"locationId"`
	Value      float64 `json:"value"`
	RasterId   int     `json:"rasterId"`
	Resolution float64 `json:"resolution"`
}

// HasData reports whether the point was covered by the elevation dataset
func (r *ElevationPointAPIResponse) HasData() bool {
	return r.Value > noDataValue
}

package server

import (
	"errors"
	"math"
	"net/url"
	"strconv"
)

// Query parameter names.
const (
	ParamDepthMin = "depth_min"
	ParamDepthMax = "depth_max"
)

// ParseBounds reads depth_min and depth_max from q. Both are required and must
// parse as floats; NaN is rejected, infinities are allowed. When a key is
// repeated the first value wins. depth_min > depth_max is not an error here.
func ParseBounds(q url.Values) (depthMin, depthMax float64, err error) {
	if depthMin, err = parseBound(q, ParamDepthMin); err != nil {
		return 0, 0, err
	}
	if depthMax, err = parseBound(q, ParamDepthMax); err != nil {
		return 0, 0, err
	}
	return depthMin, depthMax, nil
}

func parseBound(q url.Values, key string) (float64, error) {
	values, ok := q[key]
	if !ok || len(values) == 0 {
		return 0, &BadRequestError{Param: key, Msg: "missing"}
	}
	raw := values[0]
	if raw == "" {
		return 0, &BadRequestError{Param: key, Msg: "empty"}
	}
	v, err := strconv.ParseFloat(raw, 64)
	// out-of-range literals overflow to ±Inf, which is a valid open bound
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, &BadRequestError{Param: key, Value: raw, Msg: "not a number", Err: err}
	}
	if math.IsNaN(v) {
		return 0, &BadRequestError{Param: key, Value: raw, Msg: "not a number"}
	}
	return v, nil
}

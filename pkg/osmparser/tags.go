package osmparser

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/paulmach/osm"
)

// recognized keys become osm:<key> tags, everything else is kept verbatim as key=value
var recognizedKeys = map[string]string{
	"access":         "osm:access",
	"barrier":        "osm:barrier",
	"bicycle":        "osm:bicycle",
	"construction":   "osm:construction",
	"crossing":       "osm:crossing",
	"cycleway":       "osm:cycleway",
	"foot":           "osm:foot",
	"footway":        "osm:footway",
	"highway":        "osm:highway",
	"junction":       "osm:junction",
	"maxspeed":       "osm:maxspeed",
	"motor_vehicle":  "osm:motor_vehicle",
	"motorcar":       "osm:motorcar",
	"name":           "osm:name",
	"oneway":         "osm:oneway",
	"oneway:bicycle": "osm:oneway_bicycle",
	"ref":            "osm:ref",
	"smoothness":     "osm:smoothness",
	"surface":        "osm:surface",
	"tracktype":      "osm:tracktype",
	"vehicle":        "osm:vehicle",
}

// values of these keys are free text
var literalKeys = map[string]struct{}{
	"name":     {},
	"maxspeed": {},
	"ref":      {},
}

var onewayValues = map[string]string{
	"yes":     "osm:Yes",
	"true":    "osm:Yes",
	"1":       "osm:Yes",
	"no":      "osm:No",
	"false":   "osm:No",
	"0":       "osm:No",
	"-1":      "osm:Reverse",
	"reverse": "osm:Reverse",
}

// conceptValue turns an OSM value into its osm: concept, e.g. traffic_signals becomes osm:TrafficSignals.
func conceptValue(value string) string {
	var sb strings.Builder
	sb.WriteString("osm:")
	upper := true
	for _, r := range value {
		if r == '_' || r == ' ' || r == '-' || r == ':' {
			upper = true
			continue
		}
		if upper {
			sb.WriteRune(unicode.ToUpper(r))
			upper = false
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// ConvertTags splits OSM tags into recognized osm:* tags and undefined key=value strings.
func ConvertTags(tags osm.Tags) (map[string]string, []string) {
	converted := make(map[string]string)
	var undefined []string
	for _, tag := range tags {
		key, ok := recognizedKeys[tag.Key]
		if !ok {
			undefined = append(undefined, tag.Key+"="+tag.Value)
			continue
		}

		switch {
		case strings.HasPrefix(tag.Key, "oneway"):
			if v, ok := onewayValues[strings.ToLower(tag.Value)]; ok {
				converted[key] = v
			} else {
				converted[key] = conceptValue(tag.Value)
			}
		case isLiteral(tag.Key):
			converted[key] = tag.Value
		default:
			converted[key] = conceptValue(tag.Value)
		}
	}
	return converted, undefined
}

func isLiteral(key string) bool {
	_, ok := literalKeys[key]
	return ok
}

// ParseMaxSpeed reads an osm maxspeed value in km/h. Values in mph are converted.
func ParseMaxSpeed(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	factor := 1.0
	if strings.HasSuffix(value, "mph") {
		factor = 1.609344
		value = strings.TrimSpace(strings.TrimSuffix(value, "mph"))
	} else if strings.HasSuffix(value, "km/h") {
		value = strings.TrimSpace(strings.TrimSuffix(value, "km/h"))
	}
	speed, err := strconv.ParseFloat(value, 64)
	if err != nil || speed <= 0 {
		return 0, false
	}
	return speed * factor, true
}

package tilestore

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"lintang/routabletiles/pkg/datastructure"
	"lintang/routabletiles/pkg/util"
)

const (
	typeNode = "osm:Node"
	typeWay  = "osm:Way"

	keyType       = "@type"
	keyID         = "@id"
	keyLat        = "geo:lat"
	keyLon        = "geo:long"
	keyHasNodes   = "osm:hasNodes"
	keyHasEdges   = "osm:hasEdges"
	keyHasWeights = "osm:hasWeights"
	keyHasTag     = "osm:hasTag"
	keyMaxSpeed   = "osm:maxspeed"
)

var documentContext = map[string]interface{}{
	"tiles":                        "https://w3id.org/tree/terms#",
	"hydra":                        "http://www.w3.org/ns/hydra/core#",
	"osm":                          "https://w3id.org/openstreetmap/terms#",
	"rdfs":                         "http://www.w3.org/2000/01/rdf-schema#",
	"geo":                          "http://www.w3.org/2003/01/geo/wgs84_pos#",
	"dcterms":                      "http://purl.org/dc/terms/",
	"dcterms:license":              idType(),
	"hydra:variableRepresentation": idType(),
	"hydra:property":               idType(),
	"osm:access":                   idType(),
	"osm:barrier":                  idType(),
	"osm:bicycle":                  idType(),
	"osm:construction":             idType(),
	"osm:crossing":                 idType(),
	"osm:cycleway":                 idType(),
	"osm:footway":                  idType(),
	"osm:highway":                  idType(),
	"osm:motor_vehicle":            idType(),
	"osm:motorcar":                 idType(),
	"osm:oneway_bicycle":           idType(),
	"osm:oneway":                   idType(),
	"osm:smoothness":               idType(),
	"osm:surface":                  idType(),
	"osm:tracktype":                idType(),
	"osm:vehicle":                  idType(),
	"osm:hasNodes":                 map[string]string{"@container": "@list", "@type": "@id"},
	"osm:hasMembers":               map[string]string{"@container": "@list", "@type": "@id"},
}

func idType() map[string]string {
	return map[string]string{"@type": "@id"}
}

type document struct {
	Graph []map[string]interface{} `json:"@graph"`
}

// DecodeTile parses a JSON-LD tile document. Entities of other types are ignored.
func DecodeTile(coord datastructure.TileCoordinate, data []byte) (*datastructure.Tile, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, util.WrapErrorf(err, util.ErrCorruptedTile, "tile %s is not a JSON-LD document", coord)
	}
	if doc.Graph == nil {
		return nil, util.NewErrorf(util.ErrCorruptedTile, "tile %s has no @graph", coord)
	}

	tile := datastructure.NewTile(coord, nil, nil)
	for _, entity := range doc.Graph {
		typ, _ := entity[keyType].(string)
		switch typ {
		case typeNode:
			node, err := decodeNode(entity)
			if err != nil {
				return nil, util.WrapErrorf(err, util.ErrCorruptedTile, "tile %s", coord)
			}
			tile.Nodes[node.ID] = node
		case typeWay:
			way, err := decodeWay(entity)
			if err != nil {
				return nil, util.WrapErrorf(err, util.ErrCorruptedTile, "tile %s", coord)
			}
			tile.Ways[way.ID] = way
		}
	}
	return tile, nil
}

func decodeNode(entity map[string]interface{}) (*datastructure.Node, error) {
	id, ok := entity[keyID].(string)
	if !ok {
		return nil, fmt.Errorf("node without %s", keyID)
	}
	lat, ok := entity[keyLat].(float64)
	if !ok {
		return nil, fmt.Errorf("node %s without %s", id, keyLat)
	}
	lon, ok := entity[keyLon].(float64)
	if !ok {
		return nil, fmt.Errorf("node %s without %s", id, keyLon)
	}

	undefined, err := stringList(entity[keyHasTag])
	if err != nil {
		return nil, fmt.Errorf("node %s: %w", id, err)
	}
	return datastructure.NewNode(id, lat, lon, decodeTags(entity), undefined), nil
}

func decodeWay(entity map[string]interface{}) (*datastructure.Way, error) {
	id, ok := entity[keyID].(string)
	if !ok {
		return nil, fmt.Errorf("way without %s", keyID)
	}

	var (
		nodes     []string
		distances []float64
		err       error
	)
	if edges, ok := entity[keyHasEdges].(map[string]interface{}); ok {
		if nodes, err = stringList(edges[keyHasNodes]); err != nil {
			return nil, fmt.Errorf("way %s: %w", id, err)
		}
		if distances, err = floatList(edges[keyHasWeights]); err != nil {
			return nil, fmt.Errorf("way %s: %w", id, err)
		}
		if len(nodes) > 1 && len(distances) != len(nodes)-1 {
			return nil, fmt.Errorf("way %s has %d nodes but %d weights", id, len(nodes), len(distances))
		}
	} else {
		raw, ok := entity[keyHasNodes]
		if !ok {
			return nil, fmt.Errorf("way %s without %s", id, keyHasNodes)
		}
		if nodes, err = stringList(raw); err != nil {
			return nil, fmt.Errorf("way %s: %w", id, err)
		}
	}
	if len(nodes) < 2 {
		return nil, fmt.Errorf("way %s has %d nodes", id, len(nodes))
	}

	undefined, err := stringList(entity[keyHasTag])
	if err != nil {
		return nil, fmt.Errorf("way %s: %w", id, err)
	}

	tags := decodeTags(entity)
	way := datastructure.NewWay(id, nodes, tags, undefined)
	way.Distances = distances
	if raw, ok := tags[keyMaxSpeed]; ok {
		if speed, err := strconv.ParseFloat(raw, 64); err == nil && speed > 0 {
			way.MaxSpeed = speed
			delete(tags, keyMaxSpeed)
		}
	}
	return way, nil
}

// decodeTags collects the scalar osm:* properties. Numbers and booleans keep their JSON spelling.
func decodeTags(entity map[string]interface{}) map[string]string {
	tags := make(map[string]string)
	for key, value := range entity {
		if !strings.HasPrefix(key, "osm:") || key == keyHasNodes || key == keyHasEdges || key == keyHasTag {
			continue
		}
		switch v := value.(type) {
		case string:
			tags[key] = v
		case float64:
			tags[key] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			tags[key] = strconv.FormatBool(v)
		}
	}
	return tags
}

func stringList(raw interface{}) ([]string, error) {
	if raw == nil {
		return nil, nil
	}
	values, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("expected a list, got %T", raw)
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected a string list element, got %T", v)
		}
		out = append(out, s)
	}
	return out, nil
}

func floatList(raw interface{}) ([]float64, error) {
	if raw == nil {
		return []float64{}, nil
	}
	values, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("expected a list, got %T", raw)
	}
	out := make([]float64, 0, len(values))
	for _, v := range values {
		f, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("expected a numeric list element, got %T", v)
		}
		out = append(out, f)
	}
	return out, nil
}

// EncodeTile renders tile as a JSON-LD document. Nodes come first, then ways, each sorted by id.
func EncodeTile(tile *datastructure.DerivedTile) ([]byte, error) {
	graph := make([]map[string]interface{}, 0, len(tile.Nodes)+len(tile.Ways))

	nodeIDs := make([]string, 0, len(tile.Nodes))
	for id := range tile.Nodes {
		nodeIDs = append(nodeIDs, id)
	}
	sort.Strings(nodeIDs)
	for _, id := range nodeIDs {
		graph = append(graph, encodeNode(tile.Nodes[id]))
	}

	wayIDs := make([]string, 0, len(tile.Ways))
	for id := range tile.Ways {
		wayIDs = append(wayIDs, id)
	}
	sort.Strings(wayIDs)
	for _, id := range wayIDs {
		graph = append(graph, encodeWay(tile.Ways[id]))
	}

	coord := tile.Coordinate
	doc := map[string]interface{}{
		"@context":            documentContext,
		"tiles:zoom":          coord.Zoom,
		"tiles:longitudeTile": coord.X,
		"tiles:latitudeTile":  coord.Y,
		"@graph":              graph,
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrInternalServerError, "encode tile %s", coord)
	}
	return data, nil
}

func encodeNode(node *datastructure.Node) map[string]interface{} {
	blob := make(map[string]interface{}, len(node.Tags)+5)
	for k, v := range node.Tags {
		blob[k] = v
	}
	blob[keyType] = typeNode
	blob[keyID] = node.ID
	blob[keyLat] = node.Lat
	blob[keyLon] = node.Lon
	if len(node.UndefinedTags) > 0 {
		blob[keyHasTag] = node.UndefinedTags
	}
	return blob
}

func encodeWay(way *datastructure.Way) map[string]interface{} {
	blob := make(map[string]interface{}, len(way.Tags)+5)
	for k, v := range way.Tags {
		blob[k] = v
	}
	blob[keyType] = typeWay
	blob[keyID] = way.ID

	nodes := way.Nodes
	if nodes == nil {
		nodes = []string{}
	}
	if way.Distances != nil {
		blob[keyHasEdges] = map[string]interface{}{
			keyHasNodes:   nodes,
			keyHasWeights: way.Distances,
		}
	} else {
		blob[keyHasNodes] = nodes
	}
	if len(way.UndefinedTags) > 0 {
		blob[keyHasTag] = way.UndefinedTags
	}
	if way.HasMaxSpeed() {
		blob[keyMaxSpeed] = way.MaxSpeed
	}
	return blob
}

package main

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/prakash023/portfolio/internal/config"
)

// MapProvider renders an interactive map widget for a fixed location.
type MapProvider interface {
	Embed(cfg config.MapConfig) (template.HTML, error)
}

// LeafletProvider embeds an OpenStreetMap tile map through Leaflet, which the
// page loads from its CDN.
type LeafletProvider struct{}

var leafletTemplate = template.Must(template.New("leaflet").Parse(`<div id="{{.Element}}" class="map"></div>
<script>
window.addEventListener("load", function () {
	if (typeof L === "undefined" || !document.getElementById({{.Element}}) || window.__maps && window.__maps[{{.Element}}]) {
		return;
	}
	var map = L.map({{.Element}}, {
		dragging: {{.Dragging}},
		scrollWheelZoom: {{.ScrollWheelZoom}},
		touchZoom: {{.TouchZoom}}
	}).setView([{{.Latitude}}, {{.Longitude}}], {{.Zoom}});
	L.tileLayer({{.TileURL}}, {attribution: {{.Attribution}}}).addTo(map);
	L.marker([{{.Latitude}}, {{.Longitude}}]).addTo(map).bindPopup({{.Popup}}).openPopup();
	setTimeout(function () { map.invalidateSize(); }, {{.InvalidateDelayMS}});
	window.__maps = window.__maps || {};
	window.__maps[{{.Element}}] = map;
});
</script>`))

type leafletData struct {
	config.MapConfig
	InvalidateDelayMS int64
}

func (LeafletProvider) Embed(cfg config.MapConfig) (template.HTML, error) {
	if cfg.Element == "" {
		return "", fmt.Errorf("map element id is empty")
	}
	if cfg.Latitude < -90 || cfg.Latitude > 90 || cfg.Longitude < -180 || cfg.Longitude > 180 {
		return "", fmt.Errorf("map coordinates %v,%v out of range", cfg.Latitude, cfg.Longitude)
	}
	if cfg.Zoom < 0 || cfg.Zoom > 19 {
		return "", fmt.Errorf("map zoom %d out of range", cfg.Zoom)
	}

	var buf bytes.Buffer
	err := leafletTemplate.Execute(&buf, leafletData{MapConfig: cfg, InvalidateDelayMS: cfg.InvalidateDelay.Milliseconds()})
	if err != nil {
		return "", fmt.Errorf("rendering map: %w", err)
	}
	return template.HTML(buf.String()), nil
}

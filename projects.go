package main

import "github.com/prakash023/portfolio/internal/config"

// Project is one gallery entry. An empty Link means the modal shows the image
// full-bleed with no outbound link.
type Project struct {
	Key             string `json:"key"`
	Position        int    `json:"-"`
	Image           string `json:"image"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Tools           string `json:"tools"`
	Link            string `json:"link,omitempty"`
	StaticPreview   string `json:"static_preview,omitempty"`
	AnimatedPreview string `json:"animated_preview,omitempty"`
}

// FullBleed reports whether the modal should render without a link.
func (p Project) FullBleed() bool {
	return p.Link == ""
}

// HoverSwap reports whether the card swaps to an animated preview on hover.
func (p Project) HoverSwap() bool {
	return p.StaticPreview != "" && p.AnimatedPreview != ""
}

// CardImage is the image the gallery card shows at rest.
func (p Project) CardImage() string {
	if p.StaticPreview != "" {
		return p.StaticPreview
	}
	return p.Image
}

func projectsFromConfig(cfg []config.ProjectConfig) []Project {
	projects := make([]Project, 0, len(cfg))
	for i, pc := range cfg {
		projects = append(projects, Project{
			Key:             pc.Key,
			Position:        i,
			Image:           pc.Image,
			Title:           pc.Title,
			Description:     pc.Description,
			Tools:           pc.Tools,
			Link:            pc.Link,
			StaticPreview:   pc.StaticPreview,
			AnimatedPreview: pc.AnimatedPreview,
		})
	}
	return projects
}

package content

// Content is the page content document. New writes always use the nested
// {section: {enabled, field: value}} shape; flat and dot-notation keys are
// still read through the resolver.
type Content map[string]any

// EnabledKey is the flag mirrored into every section object.
const EnabledKey = "enabled"

// Asset is the value stored for an image field after an upload.
type Asset struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// ToMap renders the asset in its stored shape.
func (a Asset) ToMap() map[string]any {
	return map[string]any{
		"id":       a.ID,
		"url":      a.URL,
		"filename": a.Filename,
	}
}

// Slide is one entry of a slider field.
type Slide struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	Filename    string `json:"filename"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ButtonText  string `json:"buttonText"`
	ButtonLink  string `json:"buttonLink"`
	Order       int    `json:"order"`
}

func (s Slide) ToMap() map[string]any {
	return map[string]any{
		"id":          s.ID,
		"url":         s.URL,
		"filename":    s.Filename,
		"title":       s.Title,
		"description": s.Description,
		"buttonText":  s.ButtonText,
		"buttonLink":  s.ButtonLink,
		"order":       s.Order,
	}
}

// FAQ is one entry of a faq field.
type FAQ struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Order    int    `json:"order"`
}

func (f FAQ) ToMap() map[string]any {
	return map[string]any{
		"id":       f.ID,
		"question": f.Question,
		"answer":   f.Answer,
		"order":    f.Order,
	}
}

// TableRow is one row of a table field: arbitrary column values plus "id".
type TableRow map[string]any

// ID returns the row identifier, or "" when missing.
func (r TableRow) ID() string {
	id, _ := r["id"].(string)
	return id
}

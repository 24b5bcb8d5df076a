package poster

// Template is one of the fixed poster layouts the backend can render.
type Template struct {
	ID          string
	Name        string
	Description string
}

// Templates is the catalog shown on the template-selection screen.
var Templates = []Template{
	{
		ID:          "academic",
		Name:        "Academic Research",
		Description: "Clean and professional layout perfect for academic presentations",
	},
	{
		ID:          "creative",
		Name:        "Creative Conference",
		Description: "Vibrant and modern design for creative and artistic presentations",
	},
	{
		ID:          "minimal",
		Name:        "Minimalist",
		Description: "Simple and elegant design with focus on content",
	},
	{
		ID:          "scientific",
		Name:        "Scientific Research",
		Description: "Data-focused template ideal for scientific and medical research",
	},
	{
		ID:          "business",
		Name:        "Business Professional",
		Description: "Corporate design perfect for business presentations",
	},
	{
		ID:          "educational",
		Name:        "Educational",
		Description: "Engaging and colorful design for educational content",
	},
}

// TemplateByID looks a template up in the catalog.
func TemplateByID(id string) (Template, bool) {
	for _, t := range Templates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

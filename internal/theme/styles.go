package theme

// Styles holds the class names (and logo asset) for every theme-dependent element
// of the login page.
type Styles struct {
	Logo         string
	Heading      string
	Input        string
	LoginButton  string
	GoogleButton string
	Page         string
}

var (
	defaultStyles = Styles{
		Logo:         "/static/logo.svg",
		Heading:      "text-gray-900",
		Input:        "text-gray-900",
		LoginButton:  "w-full bg-slate-800 text-white",
		GoogleButton: "w-full bg-gray-100 text-gray-900",
		Page:         "bg-white",
	}

	lightStyles = Styles{
		Logo:         "/static/logo.svg",
		Heading:      "text-gray-900",
		Input:        "text-gray-900",
		LoginButton:  "w-full bg-slate-800 text-white",
		GoogleButton: "w-full bg-gray-100 hover:bg-gray-200 text-gray-900",
		Page:         "bg-white",
	}

	darkStyles = Styles{
		Logo:         "/static/logo_white.svg",
		Heading:      "text-gray-100",
		Input:        "text-black",
		LoginButton:  "w-full bg-slate-400 text-white",
		GoogleButton: "w-full bg-gray-800 hover:bg-gray-700 text-gray-100",
		Page:         "bg-gray-950",
	}
)

// StylesFor returns the variant for p. Unresolved always gets the default styles.
func StylesFor(p Phase) Styles {
	t, ok := p.Theme()
	if !ok {
		return defaultStyles
	}
	if t == Dark {
		return darkStyles
	}
	return lightStyles
}

package theme

// DefaultName 未知主题时回退的主题
const DefaultName = "corporate"

var builtins = []Theme{
	{
		Name:        "corporate",
		DisplayName: "Corporate",
		Description: "Professional blue and gray theme",
		Colors: Colors{
			Primary:    "#1e3a5f",
			Secondary:  "#4a6fa5",
			Background: "#ffffff",
			Text:       "#1a1a1a",
			Accent:     "#3b82f6",
			Muted:      "#6b7280",
		},
		Fonts: Fonts{Heading: "Arial", Body: "Arial"},
	},
	{
		Name:        "minimal",
		DisplayName: "Minimal",
		Description: "Clean black and white design",
		Colors: Colors{
			Primary:    "#000000",
			Secondary:  "#374151",
			Background: "#ffffff",
			Text:       "#111827",
			Accent:     "#6b7280",
			Muted:      "#9ca3af",
		},
		Fonts: Fonts{Heading: "Helvetica", Body: "Helvetica"},
	},
	{
		Name:        "creative",
		DisplayName: "Creative",
		Description: "Colorful and dynamic theme",
		Colors: Colors{
			Primary:    "#7c3aed",
			Secondary:  "#ec4899",
			Background: "#faf5ff",
			Text:       "#1f2937",
			Accent:     "#f59e0b",
			Muted:      "#6b7280",
		},
		Fonts: Fonts{Heading: "Georgia", Body: "Arial"},
	},
	{
		Name:        "nature",
		DisplayName: "Nature",
		Description: "Calming green and beige palette",
		Colors: Colors{
			Primary:    "#166534",
			Secondary:  "#4ade80",
			Background: "#f5f5dc",
			Text:       "#1a1a1a",
			Accent:     "#84cc16",
			Muted:      "#6b7280",
		},
		Fonts: Fonts{Heading: "Georgia", Body: "Arial"},
	},
	{
		Name:        "tech",
		DisplayName: "Tech",
		Description: "Modern gradient theme",
		Colors: Colors{
			Primary:    "#0ea5e9",
			Secondary:  "#8b5cf6",
			Background: "#0f172a",
			Text:       "#f8fafc",
			Accent:     "#22d3ee",
			Muted:      "#94a3b8",
		},
		Fonts: Fonts{Heading: "Arial", Body: "Arial"},
	},
	{
		Name:        "academic",
		DisplayName: "Academic",
		Description: "Scholarly and professional",
		Colors: Colors{
			Primary:    "#7c2d12",
			Secondary:  "#b45309",
			Background: "#fffbeb",
			Text:       "#1c1917",
			Accent:     "#d97706",
			Muted:      "#78716c",
		},
		Fonts: Fonts{Heading: "Times New Roman", Body: "Times New Roman"},
	},
}

// List 内置主题，顺序固定，返回副本
func List() []Theme {
	out := make([]Theme, len(builtins))
	copy(out, builtins)
	return out
}

// Get 按名称查找内置主题
func Get(name string) (Theme, bool) {
	for _, t := range builtins {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}

// IsBuiltin 是否为内置主题名称
func IsBuiltin(name string) bool {
	_, ok := Get(name)
	return ok
}

// Default 默认主题
func Default() Theme {
	t, _ := Get(DefaultName)
	return t
}

// Resolve 解析主题名称，未知名称返回默认主题，不会失败
func Resolve(name string) Theme {
	if t, ok := Get(name); ok {
		return t
	}
	return Default()
}

package assets

// defaultLoader serves the package-level helpers from embedded assets.
var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads a built-in CSS style by name (without .css extension).
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// LoadTemplate loads a built-in snapshot template by name (without .html extension).
func LoadTemplate(name string) (string, error) {
	return defaultLoader.LoadTemplate(name)
}

// LoadScript loads a built-in script by name (without .js extension).
func LoadScript(name string) (string, error) {
	return defaultLoader.LoadScript(name)
}

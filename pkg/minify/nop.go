package minify

// Nop is a minifier that performs no substitution. It lets the pipeline be
// exercised in tests without a dictionary influencing the output.
type Nop struct{}

// Mapping returns an empty dictionary.
func (Nop) Mapping() map[string]string { return map[string]string{} }

// MinifyCrateID returns the name unchanged.
func (Nop) MinifyCrateID(name string) string { return name }

// Minify returns the text unchanged.
func (Nop) Minify(text string) string { return text }

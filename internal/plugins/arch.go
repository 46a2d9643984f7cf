package plugins

func init() {
	Architectures.Register(csdaTransformer{
		name: "csda_transformer",
		defaults: map[string]string{
			"encoder-embed-dim":       "512",
			"encoder-ffn-embed-dim":   "2048",
			"encoder-attention-heads": "8",
			"encoder-layers":          "6",
			"decoder-embed-dim":       "512",
			"decoder-ffn-embed-dim":   "2048",
			"decoder-attention-heads": "8",
			"decoder-layers":          "6",
			"share-all-embeddings":    "True",
		},
	})
	Architectures.Register(csdaTransformer{
		name: "csda_transformer_big",
		defaults: map[string]string{
			"encoder-embed-dim":       "1024",
			"encoder-ffn-embed-dim":   "4096",
			"encoder-attention-heads": "16",
			"encoder-layers":          "6",
			"decoder-embed-dim":       "1024",
			"decoder-ffn-embed-dim":   "4096",
			"decoder-attention-heads": "16",
			"decoder-layers":          "6",
			"share-all-embeddings":    "True",
		},
	})
}

// csdaTransformer is the dialogue transformer with a latent-evidence
// encoder branch. The preset values live in the framework plugin; the
// Defaults map documents them for recipe validation and inspection.
type csdaTransformer struct {
	name     string
	defaults map[string]string
}

func (a csdaTransformer) Name() string { return a.name }

func (a csdaTransformer) Description() string {
	return "transformer encoder-decoder with a latent-evidence encoder branch"
}

func (a csdaTransformer) Args() []string {
	return []string{"--arch", a.name}
}

func (a csdaTransformer) Defaults() map[string]string {
	out := make(map[string]string, len(a.defaults))
	for k, v := range a.defaults {
		out[k] = v
	}
	return out
}

package registry

// Backend identifies the runtime family of a backbone model.
type Backend string

const (
	BackendTorch Backend = "torch"
	BackendGGUF  Backend = "gguf"
	BackendONNX  Backend = "onnx"
)

// Backbone describes one text-to-token model available for loading.
type Backbone struct {
	ID                string
	Repo              string
	Language          string
	Backend           Backend
	SupportsStreaming bool
	Description       string
}

// CPUOnly reports whether this backbone is pinned to CPU execution.
// GGUF (llama.cpp) backbones cannot run on CUDA in this system.
func (b Backbone) CPUOnly() bool { return b.Backend == BackendGGUF }

// Codec describes one waveform<->token codec model.
type Codec struct {
	ID          string
	Repo        string
	Type        string
	Description string
}

// Voice describes a built-in reference voice.
type Voice struct {
	Name        string
	Language    string
	Gender      string
	Description string
}

var backbones = []Backbone{
	{ID: "neutts-air", Repo: "neuphonic/neutts-air", Language: "en-us", Backend: BackendTorch, Description: "NeuTTS Air ~748M params, PyTorch"},
	{ID: "neutts-air-q4-gguf", Repo: "neuphonic/neutts-air-q4-gguf", Language: "en-us", Backend: BackendGGUF, SupportsStreaming: true, Description: "NeuTTS Air Q4 quantized, GGUF"},
	{ID: "neutts-air-q8-gguf", Repo: "neuphonic/neutts-air-q8-gguf", Language: "en-us", Backend: BackendGGUF, SupportsStreaming: true, Description: "NeuTTS Air Q8 quantized, GGUF"},
	{ID: "neutts-air-onnx", Repo: "neuphonic/neutts-air-onnx", Language: "en-us", Backend: BackendONNX, Description: "NeuTTS Air ONNX runtime"},
	{ID: "neutts-nano", Repo: "neuphonic/neutts-nano", Language: "en-us", Backend: BackendTorch, Description: "NeuTTS Nano ~120M params, PyTorch"},
	{ID: "neutts-nano-q4-gguf", Repo: "neuphonic/neutts-nano-q4-gguf", Language: "en-us", Backend: BackendGGUF, SupportsStreaming: true, Description: "NeuTTS Nano Q4 quantized, GGUF"},
	{ID: "neutts-nano-q8-gguf", Repo: "neuphonic/neutts-nano-q8-gguf", Language: "en-us", Backend: BackendGGUF, SupportsStreaming: true, Description: "NeuTTS Nano Q8 quantized, GGUF"},
	{ID: "neutts-nano-german", Repo: "neuphonic/neutts-nano-german", Language: "de", Backend: BackendTorch, Description: "NeuTTS Nano German, PyTorch"},
	{ID: "neutts-nano-german-q4-gguf", Repo: "neuphonic/neutts-nano-german-q4-gguf", Language: "de", Backend: BackendGGUF, SupportsStreaming: true, Description: "NeuTTS Nano German Q4 quantized, GGUF"},
	{ID: "neutts-nano-german-q8-gguf", Repo: "neuphonic/neutts-nano-german-q8-gguf", Language: "de", Backend: BackendGGUF, SupportsStreaming: true, Description: "NeuTTS Nano German Q8 quantized, GGUF"},
	{ID: "neutts-nano-french", Repo: "neuphonic/neutts-nano-french", Language: "fr-fr", Backend: BackendTorch, Description: "NeuTTS Nano French, PyTorch"},
	{ID: "neutts-nano-french-q4-gguf", Repo: "neuphonic/neutts-nano-french-q4-gguf", Language: "fr-fr", Backend: BackendGGUF, SupportsStreaming: true, Description: "NeuTTS Nano French Q4 quantized, GGUF"},
	{ID: "neutts-nano-french-q8-gguf", Repo: "neuphonic/neutts-nano-french-q8-gguf", Language: "fr-fr", Backend: BackendGGUF, SupportsStreaming: true, Description: "NeuTTS Nano French Q8 quantized, GGUF"},
	{ID: "neutts-nano-spanish", Repo: "neuphonic/neutts-nano-spanish", Language: "es", Backend: BackendTorch, Description: "NeuTTS Nano Spanish, PyTorch"},
	{ID: "neutts-nano-spanish-q4-gguf", Repo: "neuphonic/neutts-nano-spanish-q4-gguf", Language: "es", Backend: BackendGGUF, SupportsStreaming: true, Description: "NeuTTS Nano Spanish Q4 quantized, GGUF"},
	{ID: "neutts-nano-spanish-q8-gguf", Repo: "neuphonic/neutts-nano-spanish-q8-gguf", Language: "es", Backend: BackendGGUF, SupportsStreaming: true, Description: "NeuTTS Nano Spanish Q8 quantized, GGUF"},
}

var codecs = []Codec{
	{ID: "neuphonic/neucodec", Repo: "neuphonic/neucodec", Type: "pytorch", Description: "NeuCodec PyTorch (cpu/cuda)"},
	{ID: "neuphonic/distill-neucodec", Repo: "neuphonic/distill-neucodec", Type: "pytorch", Description: "Distilled NeuCodec PyTorch (cpu/cuda)"},
	{ID: "neuphonic/neucodec-onnx-decoder", Repo: "neuphonic/neucodec-onnx-decoder", Type: "onnx", Description: "NeuCodec ONNX decoder (cpu)"},
	{ID: "neuphonic/neucodec-onnx-decoder-int8", Repo: "neuphonic/neucodec-onnx-decoder-int8", Type: "onnx_int8", Description: "NeuCodec ONNX INT8 decoder (cpu)"},
}

var builtinVoices = []Voice{
	{Name: "dave", Language: "en-us", Gender: "male", Description: "English male voice"},
	{Name: "jo", Language: "en-us", Gender: "female", Description: "English female voice"},
	{Name: "greta", Language: "de", Gender: "female", Description: "German female voice"},
	{Name: "hans", Language: "de", Gender: "male", Description: "German male voice"},
	{Name: "mateo", Language: "es", Gender: "male", Description: "Spanish male voice"},
	{Name: "elena", Language: "es", Gender: "female", Description: "Spanish female voice"},
	{Name: "juliette", Language: "fr-fr", Gender: "female", Description: "French female voice"},
	{Name: "pierre", Language: "fr-fr", Gender: "male", Description: "French male voice"},
}

// Backbones returns a copy of the backbone registry.
func Backbones() []Backbone {
	out := make([]Backbone, len(backbones))
	copy(out, backbones)
	return out
}

// Codecs returns a copy of the codec registry.
func Codecs() []Codec {
	out := make([]Codec, len(codecs))
	copy(out, codecs)
	return out
}

// BuiltinVoices returns a copy of the built-in voice registry.
func BuiltinVoices() []Voice {
	out := make([]Voice, len(builtinVoices))
	copy(out, builtinVoices)
	return out
}

// BackboneByID looks up a backbone model by its identifier.
func BackboneByID(id string) (Backbone, bool) {
	for _, b := range backbones {
		if b.ID == id {
			return b, true
		}
	}
	return Backbone{}, false
}

// CodecByID looks up a codec model by its identifier.
func CodecByID(id string) (Codec, bool) {
	for _, c := range codecs {
		if c.ID == id {
			return c, true
		}
	}
	return Codec{}, false
}

// BuiltinVoice looks up a built-in voice by name.
func BuiltinVoice(name string) (Voice, bool) {
	for _, v := range builtinVoices {
		if v.Name == name {
			return v, true
		}
	}
	return Voice{}, false
}

// BackboneIDs returns the identifiers of all registered backbones.
func BackboneIDs() []string {
	ids := make([]string, 0, len(backbones))
	for _, b := range backbones {
		ids = append(ids, b.ID)
	}
	return ids
}

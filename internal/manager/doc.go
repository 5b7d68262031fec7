// Package manager owns the set of loaded speech-synthesis engines and the
// asynchronous load/unload/device-switch task machinery around them.
//
// Each loaded model is represented by a Handle carrying an exclusive guard;
// every engine invocation (infer, streaming infer, reference encode) holds
// that guard so an engine never sees overlapping calls. Blocking engine work
// is additionally admitted through a bounded worker pool shared across all
// models.
package manager

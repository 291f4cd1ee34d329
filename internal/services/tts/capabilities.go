package tts

import (
	"slices"
	"strings"
)

// EngineCapabilities is a snapshot of what the synthesis engine can do.
type EngineCapabilities struct {
	Backend      string
	CUDA         bool
	Models       []string
	MultiLingual bool
	VoiceCloning bool
	// Probed is false for the zero value, telling the adapter to probe.
	Probed bool
}

// Merge combines two snapshots of the same engine. Acceleration is only
// ever downgraded: the result has CUDA only when both sides do.
func (c EngineCapabilities) Merge(other EngineCapabilities) EngineCapabilities {
	if !c.Probed {
		return other
	}
	if !other.Probed {
		return c
	}
	merged := c
	merged.CUDA = c.CUDA && other.CUDA
	if len(merged.Models) == 0 {
		merged.Models = other.Models
	}
	return merged
}

// WithoutCUDA returns a copy with acceleration disabled.
func (c EngineCapabilities) WithoutCUDA() EngineCapabilities {
	c.CUDA = false
	return c
}

// HasModel reports whether name was advertised by the engine.
func (c EngineCapabilities) HasModel(name string) bool {
	return slices.Contains(c.Models, name)
}

// CloningModels returns the advertised models that accept a reference
// sample, in sorted order.
func (c EngineCapabilities) CloningModels() []string {
	var out []string
	for _, model := range c.Models {
		if isCloningModel(model) {
			out = append(out, model)
		}
	}
	slices.Sort(out)
	return out
}

func isCloningModel(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "xtts") || strings.Contains(lower, "your_tts")
}

func isMultilingualModel(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "multilingual") || isCloningModel(lower)
}

// VoiceOptions are the per-call synthesis preferences.
type VoiceOptions struct {
	// Reference is a path to a voice sample for cloning-capable models.
	Reference string
	Language  string
	Speaker   string
	// Conservative forces the default model, no reference sample, and CPU.
	Conservative bool
}

// AsConservative returns the retry settings derived from opts.
func (o VoiceOptions) AsConservative() VoiceOptions {
	return VoiceOptions{Language: o.Language, Speaker: o.Speaker, Conservative: true}
}

// SelectModel picks the model for a call. A reference sample prefers the
// configured clone model when advertised, then the first advertised cloning
// model; everything else uses defaultModel.
func SelectModel(caps EngineCapabilities, opts VoiceOptions, defaultModel, cloneModel string) string {
	if opts.Conservative || strings.TrimSpace(opts.Reference) == "" || !caps.VoiceCloning {
		return defaultModel
	}
	candidates := caps.CloningModels()
	if len(candidates) == 0 {
		return defaultModel
	}
	if cloneModel != "" && slices.Contains(candidates, cloneModel) {
		return cloneModel
	}
	return candidates[0]
}

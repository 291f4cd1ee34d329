package tts

import (
	"strconv"
	"strings"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/cmdexec"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/language"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/textutil"
)

// cudaFailureSignatures are matched case-insensitively against engine output.
var cudaFailureSignatures = []string{
	"cuda",
	"cuda runtime",
	"out of memory",
	"cudnn",
	"no cuda gpus",
	"torch.cuda",
}

// SanitizeText removes control characters and collapses whitespace so the
// text survives argv transport and logging.
func SanitizeText(text string) string {
	return textutil.CleanText(text)
}

type request struct {
	text    string
	model   string
	outPath string
	opts    VoiceOptions
	cuda    bool
}

func (c *Client) buildCommand(req request) cmdexec.Command {
	if c.backend == BackendEspeak {
		return c.espeakCommand(req)
	}
	return c.coquiCommand(req)
}

func (c *Client) coquiCommand(req request) cmdexec.Command {
	args := []string{
		"--text", req.text,
		"--model_name", req.model,
		"--out_path", req.outPath,
	}
	lang := language.Normalize(firstNonEmpty(req.opts.Language, c.language))
	if lang != "" && isMultilingualModel(req.model) {
		args = append(args, "--language_idx", lang)
	}
	switch {
	case req.opts.Reference != "" && !req.opts.Conservative && isCloningModel(req.model):
		args = append(args, "--speaker_wav", req.opts.Reference)
	case firstNonEmpty(req.opts.Speaker, c.speaker) != "":
		args = append(args, "--speaker_idx", firstNonEmpty(req.opts.Speaker, c.speaker))
	}
	args = append(args, "--use_cuda", strconv.FormatBool(req.cuda))
	return cmdexec.Command{Binary: c.binary, Args: args, Timeout: c.timeout}
}

func (c *Client) espeakCommand(req request) cmdexec.Command {
	voice := firstNonEmpty(req.opts.Language, c.language, "en")
	if speaker := firstNonEmpty(req.opts.Speaker, c.speaker); speaker != "" && !req.opts.Conservative {
		voice += "+" + speaker
	}
	return cmdexec.Command{
		Binary:  c.binary,
		Args:    []string{"-v", voice, "-w", req.outPath, "--", req.text},
		Timeout: c.timeout,
	}
}

// IsCUDAFailure reports whether engine output carries an accelerator failure signature.
func IsCUDAFailure(output string) bool {
	lower := strings.ToLower(output)
	for _, signature := range cudaFailureSignatures {
		if strings.Contains(lower, signature) {
			return true
		}
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

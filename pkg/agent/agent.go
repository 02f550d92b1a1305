// Package agent orchestrates the LLM-driven chat, voice, and vision
// pipelines: prompt building, provider calls, lenient reply parsing, and
// safety-gated execution of any actions the model requested.
package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/command-pidog/pidog-api/internal/log"
	"github.com/command-pidog/pidog-api/pkg/actions"
	"github.com/command-pidog/pidog-api/pkg/camera"
	"github.com/command-pidog/pidog-api/pkg/dog"
	"github.com/command-pidog/pidog-api/pkg/inference"
	"github.com/command-pidog/pidog-api/pkg/safety"
)

// Upstream call deadlines.
const (
	chatTimeout       = 30 * time.Second
	visionTimeout     = 60 * time.Second
	transcribeTimeout = 30 * time.Second
)

// Camera/frame failures surfaced by the vision pipeline; the web layer
// maps both to 503.
var (
	ErrCameraNotRunning = errors.New("Camera is not running. POST /camera/start first.")
	ErrNoFrame          = errors.New("No frame available.")
)

// VisionError wraps an LLM failure on the vision path; the web layer
// maps it to 502 since there is no meaningful fallback answer without the
// frame context.
type VisionError struct {
	Err error
}

func (e *VisionError) Error() string {
	return fmt.Sprintf("Vision LLM error: %v", e.Err)
}

func (e *VisionError) Unwrap() error {
	return e.Err
}

// ProviderSource resolves provider names; *inference.Registry in
// production.
type ProviderSource interface {
	Get(name, model string) (inference.Provider, error)
	List() []inference.ProviderInfo
}

// ChatResult is the outcome of the chat and voice pipelines.
type ChatResult struct {
	Answer        string   `json:"answer"`
	Actions       []string `json:"actions"`
	Transcription *string  `json:"transcription,omitempty"`
}

// VisionResult is the outcome of the vision pipeline.
type VisionResult struct {
	Description string   `json:"description"`
	Answer      string   `json:"answer"`
	Actions     []string `json:"actions"`
}

// Agent composes the robot service, safety validator, camera, and LLM
// providers behind the /agent endpoints.
type Agent struct {
	robot     *dog.Service
	safety    *safety.Validator
	camera    *camera.Service
	providers ProviderSource
	stt       *sttClient
	skillPath string
}

// New creates an agent. sttURL is the Whisper-compatible transcription
// endpoint; skillPath the skill document location.
func New(robot *dog.Service, validator *safety.Validator, cam *camera.Service, providers ProviderSource, sttURL, skillPath string) *Agent {
	return &Agent{
		robot:     robot,
		safety:    validator,
		camera:    cam,
		providers: providers,
		stt:       newSTTClient(sttURL),
		skillPath: skillPath,
	}
}

// Providers lists the configured LLM providers.
func (a *Agent) Providers() []inference.ProviderInfo {
	return a.providers.List()
}

// Chat runs one message through the chat pipeline. LLM failures degrade
// gracefully: the error text is folded into the answer so a chat client
// always gets a spoken-style response.
func (a *Agent) Chat(ctx context.Context, message, providerName, model string) ChatResult {
	provider, err := a.providers.Get(providerName, model)
	if err != nil {
		log.Error("provider lookup failed", "component", "agent", "provider", providerName, "error", err)
		return ChatResult{Answer: fmt.Sprintf("LLM error: %v", err), Actions: []string{}}
	}

	prompt := a.systemPrompt(a.sensorContext())
	log.Info("agent chat", "component", "agent", "provider", provider.Name(), "model", provider.Model())

	callCtx, cancel := context.WithTimeout(ctx, chatTimeout)
	defer cancel()

	resp, err := provider.Chat(callCtx, &inference.ChatRequest{
		Messages: []inference.Message{
			inference.NewSystemMessage(prompt),
			inference.NewUserMessage(message),
		},
	})
	if err != nil {
		log.Error("llm chat failed", "component", "agent", "error", err)
		return ChatResult{Answer: fmt.Sprintf("LLM error: %v", err), Actions: []string{}}
	}

	reply := parseReply(resp.Content)
	answer, executed := a.executeExtracted(reply.Actions, reply.Answer)
	return ChatResult{Answer: answer, Actions: executed}
}

// Voice runs the full voice pipeline: transcribe the uploaded audio,
// then feed the transcription through Chat. Empty transcriptions
// short-circuit with a fixed answer.
func (a *Agent) Voice(ctx context.Context, filename, contentType string, audio []byte) ChatResult {
	callCtx, cancel := context.WithTimeout(ctx, transcribeTimeout)
	defer cancel()

	transcription, err := a.stt.Transcribe(callCtx, filename, contentType, audio)
	if err != nil {
		log.Error("stt failed", "component", "agent", "error", err)
		return ChatResult{Answer: fmt.Sprintf("Transcription error: %v", err), Actions: []string{}}
	}

	log.Info("voice transcription", "component", "agent", "text", transcription)
	if transcription == "" {
		empty := ""
		return ChatResult{Answer: "No speech detected.", Actions: []string{}, Transcription: &empty}
	}

	result := a.Chat(ctx, transcription, "", "")
	result.Transcription = &transcription
	return result
}

// Vision captures a frame, sends it to the vision model, and executes
// any extracted actions. Camera failures return ErrCameraNotRunning or
// ErrNoFrame; LLM failures return *VisionError.
func (a *Agent) Vision(ctx context.Context, question, providerName, model string) (VisionResult, error) {
	if !a.camera.IsRunning() {
		return VisionResult{}, ErrCameraNotRunning
	}
	frame := a.camera.Frame()
	if frame == nil {
		return VisionResult{}, ErrNoFrame
	}

	provider, err := a.providers.Get(providerName, model)
	if err != nil {
		return VisionResult{}, &VisionError{Err: err}
	}

	if question == "" {
		question = "What do you see? Describe the scene briefly."
	}

	log.Info("agent vision", "component", "agent", "provider", provider.Name(), "frame_bytes", len(frame))

	callCtx, cancel := context.WithTimeout(ctx, visionTimeout)
	defer cancel()

	resp, err := provider.Vision(callCtx, &inference.VisionRequest{
		ImageJPEG: frame,
		Prompt:    question,
		System:    a.systemPrompt(""),
	})
	if err != nil {
		log.Error("llm vision failed", "component", "agent", "error", err)
		return VisionResult{}, &VisionError{Err: err}
	}

	reply := parseReply(resp.Content)
	answer, executed := a.executeExtracted(reply.Actions, reply.Answer)
	return VisionResult{
		Description: reply.Description,
		Answer:      answer,
		Actions:     executed,
	}, nil
}

// executeExtracted filters the model's action list against the catalog
// (invalid names are silently dropped), gates on battery, and queues the
// survivors. Execution failures do not fail the request: the error is
// appended to the answer.
func (a *Agent) executeExtracted(requested []string, answer string) (string, []string) {
	executed := []string{}
	var valid []string
	for _, name := range requested {
		if actions.Exists(name) {
			valid = append(valid, name)
		}
	}
	if len(valid) == 0 {
		return answer, executed
	}

	if err := a.safety.ValidateBattery(a.robot.GetBattery().Voltage); err != nil {
		log.Warn("action execution blocked", "component", "agent", "error", err)
		return answer + fmt.Sprintf(" (Action error: %v)", err), executed
	}

	executed = a.robot.ExecuteActions(valid, 50)
	return answer, executed
}

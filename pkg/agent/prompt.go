package agent

import (
	"fmt"
	"os"
	"strings"

	"github.com/command-pidog/pidog-api/pkg/actions"
)

// placeholderSkill is served when no skill document exists.
const placeholderSkill = "Skill document not yet created."

// defaultPrompt is the built-in system prompt used when no skill
// document is configured.
func defaultPrompt() string {
	return fmt.Sprintf(
		"You are PiDog, a Raspberry Pi robotic dog with AI capabilities.\n\n"+
			"Available actions: %s\n\n"+
			"Respond in JSON format: {\"actions\": [\"action1\"], \"answer\": \"Your spoken response\"}\n"+
			"Match your emotions to actions. For bark/howling, omit the answer field.\n",
		strings.Join(actions.Names(), ", "))
}

// Skill returns the skill document text, or the placeholder when the
// configured file does not exist.
func (a *Agent) Skill() string {
	if text, err := os.ReadFile(a.skillPath); err == nil {
		return string(text)
	}
	return placeholderSkill
}

// systemPrompt builds the LLM system prompt: the skill document (or the
// built-in fallback) plus the live sensor context.
func (a *Agent) systemPrompt(sensorContext string) string {
	prompt := defaultPrompt()
	if text, err := os.ReadFile(a.skillPath); err == nil && len(text) > 0 {
		prompt = string(text)
	}
	if sensorContext != "" {
		prompt += "\n\nCurrent sensor state:\n" + sensorContext
	}
	return prompt
}

// sensorContext renders the current readings for the system prompt.
func (a *Agent) sensorContext() string {
	data := a.robot.GetSensorData()
	battery := a.robot.GetBattery()
	return fmt.Sprintf("Distance: %gcm, IMU: pitch=%g° roll=%g°, Touch: %s, Battery: %gV",
		data.Distance, data.IMU.Pitch, data.IMU.Roll, data.Touch, battery.Voltage)
}

// Package actions defines the static catalog of named PiDog routines.
// The catalog is immutable after process start; every action name used
// anywhere else in the service must exist here.
package actions

import "sort"

// BodyPart identifies which part of the robot an action drives.
type BodyPart string

const (
	PartLegs  BodyPart = "legs"
	PartHead  BodyPart = "head"
	PartTail  BodyPart = "tail"
	PartMulti BodyPart = "multi"
)

// Posture is the robot's gross body position.
type Posture string

const (
	PostureStand Posture = "stand"
	PostureSit   Posture = "sit"
	PostureLie   Posture = "lie"
)

// Descriptor describes one named action.
type Descriptor struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	BodyPart        BodyPart `json:"body_part"`
	RequiredPosture Posture  `json:"required_posture,omitempty"` // empty when any posture is fine
	HasSound        bool     `json:"has_sound"`
}

// Catalog maps action name to its descriptor.
var Catalog = map[string]Descriptor{
	"forward":      {Name: "forward", Description: "Walk forward", BodyPart: PartLegs, RequiredPosture: PostureStand},
	"backward":     {Name: "backward", Description: "Walk backward", BodyPart: PartLegs, RequiredPosture: PostureStand},
	"turn left":    {Name: "turn left", Description: "Turn left while walking", BodyPart: PartLegs, RequiredPosture: PostureStand},
	"turn right":   {Name: "turn right", Description: "Turn right while walking", BodyPart: PartLegs, RequiredPosture: PostureStand},
	"stop":         {Name: "stop", Description: "Stop all movement", BodyPart: PartLegs},
	"lie":          {Name: "lie", Description: "Lie down", BodyPart: PartLegs},
	"stand":        {Name: "stand", Description: "Stand up", BodyPart: PartLegs},
	"sit":          {Name: "sit", Description: "Sit down", BodyPart: PartLegs},
	"bark":         {Name: "bark", Description: "Single bark with head bob", BodyPart: PartMulti, HasSound: true},
	"bark harder":  {Name: "bark harder", Description: "Aggressive bark with attack posture", BodyPart: PartMulti, RequiredPosture: PostureStand, HasSound: true},
	"pant":         {Name: "pant", Description: "Panting animation with sound", BodyPart: PartHead, HasSound: true},
	"wag tail":     {Name: "wag tail", Description: "Wag tail side to side", BodyPart: PartTail},
	"shake head":   {Name: "shake head", Description: "Shake head side to side", BodyPart: PartHead},
	"stretch":      {Name: "stretch", Description: "Full body stretch", BodyPart: PartMulti},
	"doze off":     {Name: "doze off", Description: "Drowsy rocking motion", BodyPart: PartLegs, RequiredPosture: PostureLie},
	"push up":      {Name: "push up", Description: "Push-up exercise", BodyPart: PartMulti, RequiredPosture: PostureStand},
	"howling":      {Name: "howling", Description: "Sit and howl", BodyPart: PartMulti, HasSound: true},
	"twist body":   {Name: "twist body", Description: "Body twist stretch", BodyPart: PartMulti, RequiredPosture: PostureStand},
	"scratch":      {Name: "scratch", Description: "Scratch self with foreleg", BodyPart: PartLegs, RequiredPosture: PostureSit},
	"handshake":    {Name: "handshake", Description: "Raise paw for handshake", BodyPart: PartMulti, RequiredPosture: PostureSit},
	"high five":    {Name: "high five", Description: "Raise paw for high five", BodyPart: PartMulti, RequiredPosture: PostureSit},
	"lick hand":    {Name: "lick hand", Description: "Reach out and lick", BodyPart: PartMulti, RequiredPosture: PostureSit},
	"waiting":      {Name: "waiting", Description: "Idle micro-movements", BodyPart: PartHead},
	"feet shake":   {Name: "feet shake", Description: "Shift weight between feet", BodyPart: PartLegs, RequiredPosture: PostureSit},
	"relax neck":   {Name: "relax neck", Description: "Neck roll stretch", BodyPart: PartHead, RequiredPosture: PostureSit},
	"nod":          {Name: "nod", Description: "Nod head up and down", BodyPart: PartHead, RequiredPosture: PostureSit},
	"think":        {Name: "think", Description: "Tilt head up-left (thinking)", BodyPart: PartHead, RequiredPosture: PostureSit},
	"recall":       {Name: "recall", Description: "Tilt head up-right (recalling)", BodyPart: PartHead, RequiredPosture: PostureSit},
	"fluster":      {Name: "fluster", Description: "Rapid head flickering (panic)", BodyPart: PartHead, RequiredPosture: PostureSit},
	"surprise":     {Name: "surprise", Description: "Jump-back surprise reaction", BodyPart: PartMulti, RequiredPosture: PostureSit},
}

// Exists reports whether name is a known action.
func Exists(name string) bool {
	_, ok := Catalog[name]
	return ok
}

// Names returns all action names in sorted order.
func Names() []string {
	names := make([]string, 0, len(Catalog))
	for name := range Catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns all descriptors sorted by name.
func List() []Descriptor {
	list := make([]Descriptor, 0, len(Catalog))
	for _, name := range Names() {
		list = append(list, Catalog[name])
	}
	return list
}

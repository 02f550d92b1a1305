package dog

// SoundInfo describes one bundled sound file.
type SoundInfo struct {
	Name   string `json:"name"`
	Format string `json:"format"` // mp3 or wav
}

// Sounds is the bundled sound catalog.
var Sounds = []SoundInfo{
	{Name: "angry", Format: "wav"},
	{Name: "confused_1", Format: "mp3"},
	{Name: "confused_2", Format: "mp3"},
	{Name: "confused_3", Format: "mp3"},
	{Name: "growl_1", Format: "mp3"},
	{Name: "growl_2", Format: "mp3"},
	{Name: "howling", Format: "mp3"},
	{Name: "pant", Format: "mp3"},
	{Name: "single_bark_1", Format: "mp3"},
	{Name: "single_bark_2", Format: "mp3"},
	{Name: "snoring", Format: "mp3"},
	{Name: "woohoo", Format: "mp3"},
}

// ValidSound reports whether name is a bundled sound.
func ValidSound(name string) bool {
	for _, s := range Sounds {
		if s.Name == name {
			return true
		}
	}
	return false
}

// SoundNames returns the bundled sound names in catalog order.
func SoundNames() []string {
	names := make([]string, len(Sounds))
	for i, s := range Sounds {
		names[i] = s.Name
	}
	return names
}

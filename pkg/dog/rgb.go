package dog

// RGBStyles are the animation styles supported by the LED strip driver.
var RGBStyles = []string{"monochromatic", "breath", "boom", "bark", "speak", "listen"}

// RGBColors maps preset color names to RGB triples.
var RGBColors = map[string][3]int{
	"white":   {255, 255, 255},
	"black":   {0, 0, 0},
	"red":     {255, 0, 0},
	"yellow":  {255, 225, 0},
	"green":   {0, 255, 0},
	"blue":    {0, 0, 255},
	"cyan":    {0, 255, 255},
	"magenta": {255, 0, 255},
	"pink":    {255, 100, 100},
}

// ValidRGBStyle reports whether style is a known animation style.
func ValidRGBStyle(style string) bool {
	for _, s := range RGBStyles {
		if s == style {
			return true
		}
	}
	return false
}

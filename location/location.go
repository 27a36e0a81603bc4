// Package location holds the destination records shown as cards.
package location

import "errors"

// Location is an immutable destination record
type Location struct {
	Name     string `toml:"name"`
	Place    string `toml:"place"`
	ImageURL string `toml:"image_url"`
}

// URLPrefix is the base for the bundled destination photos
const URLPrefix = "https://flutter.dev/docs/cookbook/img-files/effects/parallax/"

var (
	ErrEmptyName  = errors.New("location name is empty")
	ErrEmptyImage = errors.New("location image url is empty")
)

var defaults = [...]Location{
	{Name: "Mount Rushmore", Place: "U.S.A", ImageURL: URLPrefix + "01-mount-rushmore.jpg"},
	{Name: "Gardens By The Bay", Place: "Singapore", ImageURL: URLPrefix + "02-singapore.jpg"},
	{Name: "Machu Picchu", Place: "Peru", ImageURL: URLPrefix + "03-machu-picchu.jpg"},
	{Name: "Vitznau", Place: "Switzerland", ImageURL: URLPrefix + "04-vitznau.jpg"},
	{Name: "Bali", Place: "Indonesia", ImageURL: URLPrefix + "05-bali.jpg"},
	{Name: "Mexico City", Place: "Mexico", ImageURL: URLPrefix + "06-mexico-city.jpg"},
	{Name: "Cairo", Place: "Egypt", ImageURL: URLPrefix + "07-cairo.jpg"},
}

// Defaults returns a fresh copy of the seven bundled destinations in display order
func Defaults() []Location {
	out := make([]Location, len(defaults))
	copy(out, defaults[:])
	return out
}

// Validate reports whether the record can be rendered
func (l Location) Validate() error {
	if l.Name == "" {
		return ErrEmptyName
	}
	if l.ImageURL == "" {
		return ErrEmptyImage
	}
	return nil
}

package cookie

import "time"

// Cookie is a plain Set-Cookie value object. Serialization onto the wire is
// the response serializer's job.
type Cookie struct {
	Name     string
	Value    string
	Path     string
	Domain   string
	SameSite string
	Expires  time.Time
	MaxAge   int
	Secure   bool
	HttpOnly bool
}

func New(name, value string) Cookie {
	return Cookie{
		Name:  name,
		Value: value,
	}
}

package status

type Code uint16

const (
	Continue           Code = 100
	SwitchingProtocols Code = 101

	OK        Code = 200
	Created   Code = 201
	Accepted  Code = 202
	NoContent Code = 204

	MovedPermanently Code = 301
	Found            Code = 302
	NotModified      Code = 304

	BadRequest              Code = 400
	Unauthorized            Code = 401
	Forbidden               Code = 403
	NotFound                Code = 404
	MethodNotAllowed        Code = 405
	RequestTimeout          Code = 408
	LengthRequired          Code = 411
	RequestEntityTooLarge   Code = 413
	RequestURITooLong       Code = 414
	UnsupportedMediaType    Code = 415
	Teapot                  Code = 418
	UpgradeRequired         Code = 426
	HeaderFieldsTooLarge    Code = 431

	InternalServerError     Code = 500
	NotImplemented          Code = 501
	BadGateway              Code = 502
	ServiceUnavailable      Code = 503
	HTTPVersionNotSupported Code = 505
)

// Text returns the reason phrase conventionally paired with the code, or
// "Unknown Status Code" for codes missing from the table.
func Text(code Code) string {
	switch code {
	case Continue:
		return "Continue"
	case SwitchingProtocols:
		return "Switching Protocols"
	case OK:
		return "OK"
	case Created:
		return "Created"
	case Accepted:
		return "Accepted"
	case NoContent:
		return "No Content"
	case MovedPermanently:
		return "Moved Permanently"
	case Found:
		return "Found"
	case NotModified:
		return "Not Modified"
	case BadRequest:
		return "Bad Request"
	case Unauthorized:
		return "Unauthorized"
	case Forbidden:
		return "Forbidden"
	case NotFound:
		return "Not Found"
	case MethodNotAllowed:
		return "Method Not Allowed"
	case RequestTimeout:
		return "Request Timeout"
	case LengthRequired:
		return "Length Required"
	case RequestEntityTooLarge:
		return "Request Entity Too Large"
	case RequestURITooLong:
		return "Request URI Too Long"
	case UnsupportedMediaType:
		return "Unsupported Media Type"
	case Teapot:
		return "I'm a teapot"
	case UpgradeRequired:
		return "Upgrade Required"
	case HeaderFieldsTooLarge:
		return "Header Fields Too Large"
	case InternalServerError:
		return "Internal Server Error"
	case NotImplemented:
		return "Not Implemented"
	case BadGateway:
		return "Bad Gateway"
	case ServiceUnavailable:
		return "Service Unavailable"
	case HTTPVersionNotSupported:
		return "HTTP Version Not Supported"
	default:
		return "Unknown Status Code"
	}
}

// Bodyless tells whether a response with the code must carry no body at all.
func Bodyless(code Code) bool {
	return code < 200 || code == NoContent || code == NotModified
}

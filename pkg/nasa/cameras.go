package nasa

import "strings"

// CameraInfo describes a rover camera code accepted by the photos endpoint.
type CameraInfo struct {
	Code     string
	FullName string
}

// Cameras lists the camera codes the gateway accepts, in display order.
var Cameras = []CameraInfo{
	{"fhaz", "Front Hazard Avoidance Camera"},
	{"rhaz", "Rear Hazard Avoidance Camera"},
	{"mast", "Mast Camera"},
	{"chemcam", "Chemistry and Camera Complex"},
	{"mahli", "Mars Hand Lens Imager"},
	{"mardi", "Mars Descent Imager"},
	{"navcam", "Navigation Camera"},
	{"pancam", "Panoramic Camera"},
	{"minites", "Miniature Thermal Emission Spectrometer (Mini-TES)"},
}

// Rovers lists the rover names offered on the rover form. The API passes any
// rover name through to NASA.
var Rovers = []string{"curiosity", "opportunity", "spirit"}

// ValidCamera reports whether code names a known camera, ignoring case.
func ValidCamera(code string) bool {
	for _, c := range Cameras {
		if strings.EqualFold(c.Code, code) {
			return true
		}
	}
	return false
}

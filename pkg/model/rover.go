package model

// RoverStatus is the mission status reported for a rover.
type RoverStatus string

const (
	RoverActive   RoverStatus = "active"
	RoverComplete RoverStatus = "complete"
)

// Camera is the camera that took a RoverPhoto.
type Camera struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	RoverID  int    `json:"rover_id"`
	FullName string `json:"full_name"`
}

// RoverCamera is a camera definition listed on a Rover.
type RoverCamera struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
}

type Rover struct {
	ID          int           `json:"id"`
	Name        string        `json:"name"`
	LandingDate string        `json:"landing_date"`
	LaunchDate  string        `json:"launch_date"`
	Status      RoverStatus   `json:"status"`
	MaxSol      int           `json:"max_sol"`
	MaxDate     string        `json:"max_date"`
	TotalPhotos int           `json:"total_photos"`
	Cameras     []RoverCamera `json:"cameras"`
}

// RoverPhoto is a single Mars rover image as returned upstream.
type RoverPhoto struct {
	ID        int    `json:"id"`
	Sol       int    `json:"sol"`
	Camera    Camera `json:"camera"`
	ImgSrc    string `json:"img_src"`
	EarthDate string `json:"earth_date"`
	Rover     Rover  `json:"rover"`
}

// RoverPhotos is the envelope used both upstream and in API responses.
type RoverPhotos struct {
	Photos []RoverPhoto `json:"photos"`
}

package endpoints

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/doodlesbykumbi/nasa-in-go/pkg/audit"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/authenticator"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/authenticator/authn_bearer"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/identity"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/model"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/nasa"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/policy"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/server"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/server/apierror"
	"github.com/doodlesbykumbi/nasa-in-go/pkg/server/middleware"
)

//go:embed templates/*.html
var templateFiles embed.FS

var pages = template.Must(template.ParseFS(templateFiles, "templates/*.html"))

const homePage = "/nasa/home-page"

// page is the data every template receives
type page struct {
	Title   string
	User    string
	IsAdmin bool
	Error   string
	Notice  string

	Apod    *model.Apod
	Apods   []model.Apod
	Photos  []model.RoverPhoto
	Cameras []nasa.CameraInfo
	Rovers  []string
	Query   nasa.RoverQuery
	Checked map[string]bool
}

func newPage(r *http.Request, title string) *page {
	p := &page{Title: title}
	if id, ok := identity.Get(r.Context()); ok {
		p.User = id.Subject
		for _, role := range id.Roles {
			if role == policy.RoleAdmin {
				p.IsAdmin = true
			}
		}
	}
	return p
}

// RegisterWebEndpoints registers the browser pages and the form sign-in
func RegisterWebEndpoints(s *server.Server) {
	r := s.Router

	r.HandleFunc("/login", handleLoginForm(s)).Methods("GET")
	r.HandleFunc("/login", handleLogin(s)).Methods("POST")
	r.HandleFunc("/logout", handleLogout(s)).Methods("POST")
	r.HandleFunc("/access-denied", handleAccessDenied(s)).Methods("GET")

	r.HandleFunc(homePage, handleHomePage(s)).Methods("GET")
	r.HandleFunc("/nasa/mars-apod", handleApodPage(s)).Methods("GET")
	r.HandleFunc("/nasa/mars-rover", handleRoverForm(s)).Methods("GET")
	r.HandleFunc("/nasa/mars-rover", handleRoverSearch(s)).Methods("POST")
	r.HandleFunc("/nasa/list-apods", handleListPage(s)).Methods("GET")
	r.HandleFunc("/nasa/save-apod", handleSavePage(s)).Methods("POST")
	r.HandleFunc("/nasa/delete-apod", handleDeletePage(s)).Methods("POST")
	r.HandleFunc("/nasa/update-apod", handleUpdateForm(s)).Methods("GET")
	r.HandleFunc("/nasa/update-apod", handleUpdatePage(s)).Methods("POST")
}

func render(s *server.Server, w http.ResponseWriter, status int, name string, data *page) {
	var buf strings.Builder
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		s.Logger.WithError(err).WithField("template", name).Error("failed to render page")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(buf.String()))
}

// renderError shows err with the status the API would have used
func renderError(s *server.Server, w http.ResponseWriter, r *http.Request, err error) {
	status := apierror.Status(err)
	p := newPage(r, "Error")
	p.Error = err.Error()
	render(s, w, status, "error.html", p)
}

func handleLoginForm(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := newPage(r, "Sign in")
		q := r.URL.Query()
		if q.Has("error") {
			p.Error = "Invalid username or password"
		}
		if q.Has("logout") {
			p.Notice = "You have been signed out"
		}
		render(s, w, http.StatusOK, "login.html", p)
	}
}

func handleLogin(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := r.PostFormValue("username")
		password := r.PostFormValue("password")

		id, err := s.Passwords.Check(r.Context(), user, password)
		event := audit.AuthenticateEvent{
			User:     user,
			ClientIP: middleware.ClientIP(r).String(),
			Method:   authn_bearer.SessionName,
			Success:  err == nil,
		}
		if err != nil {
			event.ErrorMessage = err.Error()
		}
		s.Audit.Log(event)

		switch {
		case errors.Is(err, authenticator.ErrInvalidCredentials):
			s.Metrics.ObserveAuthentication(authn_bearer.SessionName, "failure")
			http.Redirect(w, r, middleware.LoginPath+"?error", http.StatusFound)
			return
		case err != nil:
			s.Logger.WithError(err).Error("credential check failed")
			renderError(s, w, r, apierror.WithStatus(http.StatusInternalServerError, "Authentication is unavailable"))
			return
		}
		s.Metrics.ObserveAuthentication(authn_bearer.SessionName, "success")

		signed, err := s.Tokens.Issue(id.Subject, id.Roles)
		if err != nil {
			s.Logger.WithError(err).Error("failed to issue token")
			renderError(s, w, r, apierror.WithStatus(http.StatusInternalServerError, "Failed to issue token"))
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     authn_bearer.SessionCookie,
			Value:    signed,
			Path:     "/",
			MaxAge:   int(s.Tokens.TTL().Seconds()),
			HttpOnly: true,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteLaxMode,
		})
		http.Redirect(w, r, homePage, http.StatusFound)
	}
}

func handleLogout(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     authn_bearer.SessionCookie,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		http.Redirect(w, r, middleware.LoginPath+"?logout", http.StatusFound)
	}
}

func handleAccessDenied(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render(s, w, http.StatusForbidden, "access-denied.html", newPage(r, "Access denied"))
	}
}

func handleHomePage(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render(s, w, http.StatusOK, "home.html", newPage(r, "NASA"))
	}
}

func handleApodPage(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		apod, err := s.Nasa.CurrentApod(r.Context())
		if err != nil {
			renderError(s, w, r, err)
			return
		}
		p := newPage(r, "Astronomy Picture of the Day")
		p.Apod = apod
		render(s, w, http.StatusOK, "apod.html", p)
	}
}

func roverPage(r *http.Request) *page {
	p := newPage(r, "Mars Rover Photos")
	p.Cameras = nasa.Cameras
	p.Rovers = nasa.Rovers
	p.Checked = map[string]bool{}
	return p
}

func handleRoverForm(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := roverPage(r)
		p.Query.Rover = nasa.Rovers[0]
		render(s, w, http.StatusOK, "rover.html", p)
	}
}

func handleRoverSearch(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			renderError(s, w, r, err)
			return
		}
		p := roverPage(r)
		p.Query = nasa.RoverQuery{
			Rover:     r.PostFormValue("rover"),
			EarthDate: r.PostFormValue("earthDate"),
			Cameras:   r.PostForm["camera"],
		}
		for _, c := range p.Query.Cameras {
			p.Checked[strings.ToLower(c)] = true
		}

		photos, err := s.Nasa.RoverPhotos(r.Context(), p.Query.Rover, p.Query.EarthDate, p.Query.Cameras...)
		if err != nil {
			renderError(s, w, r, err)
			return
		}
		p.Photos = photos
		if len(photos) == 0 {
			p.Notice = "No photos found"
		}
		render(s, w, http.StatusOK, "rover.html", p)
	}
}

func handleListPage(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		apods, err := s.Nasa.ListApodsLenient(r.Context())
		if err != nil {
			renderError(s, w, r, err)
			return
		}
		p := newPage(r, "Saved pictures")
		p.Apods = apods
		render(s, w, http.StatusOK, "list.html", p)
	}
}

func handleSavePage(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		apod, err := s.Nasa.SaveCurrentApod(r.Context())
		event := audit.ApodEvent{Operation: audit.OperationSave}
		if apod != nil {
			event.ApodID = apod.ID
		}
		auditApod(s, r, event, err)
		if err != nil {
			renderError(s, w, r, err)
			return
		}
		http.Redirect(w, r, "/nasa/list-apods", http.StatusFound)
	}
}

func handleDeletePage(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseApodID(r.PostFormValue("apodId"))
		if err != nil {
			renderError(s, w, r, err)
			return
		}
		err = s.Nasa.DeleteApod(r.Context(), id)
		auditApod(s, r, audit.ApodEvent{Operation: audit.OperationDelete, ApodID: id}, err)
		if err != nil {
			renderError(s, w, r, err)
			return
		}
		http.Redirect(w, r, "/nasa/list-apods", http.StatusFound)
	}
}

func handleUpdateForm(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseApodID(r.URL.Query().Get("apodId"))
		if err != nil {
			renderError(s, w, r, err)
			return
		}
		apod, err := s.Nasa.ApodByID(r.Context(), id)
		if err != nil {
			renderError(s, w, r, err)
			return
		}
		p := newPage(r, "Update picture")
		p.Apod = apod
		render(s, w, http.StatusOK, "update.html", p)
	}
}

func handleUpdatePage(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseApodID(r.PostFormValue("id"))
		if err != nil {
			renderError(s, w, r, err)
			return
		}
		edit := model.Apod{
			Title:       r.PostFormValue("title"),
			Explanation: r.PostFormValue("explanation"),
		}
		_, err = s.Nasa.UpdateApod(r.Context(), id, edit)
		auditApod(s, r, audit.ApodEvent{Operation: audit.OperationUpdate, ApodID: id}, err)
		if err != nil {
			renderError(s, w, r, err)
			return
		}
		http.Redirect(w, r, "/nasa/list-apods?updated="+url.QueryEscape(r.PostFormValue("id")), http.StatusFound)
	}
}

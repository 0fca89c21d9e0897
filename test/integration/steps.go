package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/doodlesbykumbi/nasa-in-go/pkg/model"
	gormstore "github.com/doodlesbykumbi/nasa-in-go/pkg/server/store/gorm"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	response     *http.Response
	responseBody []byte
	authToken    string
	basicUser    string
	basicPass    string
	session      *http.Cookie
	ids          map[string]int64
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{
		tc:  tc,
		ids: make(map[string]int64),
	}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		s.tc.Nasa.Reset()
		return ctx, s.tc.DB.Exec(`TRUNCATE apods, nasa_roles, nasa_members RESTART IDENTITY CASCADE`).Error
	})

	// Background steps
	sc.Step(`^the gateway is running$`, s.theGatewayIsRunning)
	sc.Step(`^a member "([^"]*)" with password "([^"]*)" and role "([^"]*)"$`, s.aMemberWithPasswordAndRole)
	sc.Step(`^NASA publishes a picture titled "([^"]*)" dated "([^"]*)"$`, s.nasaPublishesAPicture)
	sc.Step(`^NASA is failing$`, s.nasaIsFailing)

	// Authentication steps
	sc.Step(`^I am signed in as "([^"]*)" with password "([^"]*)"$`, s.iAmSignedInAs)
	sc.Step(`^I use basic credentials "([^"]*)" with password "([^"]*)"$`, s.iUseBasicCredentials)
	sc.Step(`^I am not signed in$`, s.iAmNotSignedIn)
	sc.Step(`^I sign in through the login form as "([^"]*)" with password "([^"]*)"$`, s.iSignInThroughTheLoginForm)

	// Request steps
	sc.Step(`^I note the id of the picture titled "([^"]*)"$`, s.iNoteTheIdOfThePicture)
	sc.Step(`^I send a (GET|DELETE|POST) request to "([^"]*)"$`, s.iSendARequest)
	sc.Step(`^I send a PUT request to "([^"]*)" with body:$`, s.iSendAPutRequestWithBody)

	// Response steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the response body should be "([^"]*)"$`, s.theResponseBodyShouldBe)
	sc.Step(`^the response body should contain "([^"]*)"$`, s.theResponseBodyShouldContain)
	sc.Step(`^the error message should be "(.*)"$`, s.theErrorMessageShouldBe)
	sc.Step(`^the response should redirect to "([^"]*)"$`, s.theResponseShouldRedirectTo)
	sc.Step(`^I should receive a valid token for "([^"]*)"$`, s.iShouldReceiveAValidTokenFor)
	sc.Step(`^the response should list (\d+) photos?$`, s.theResponseShouldListPhotos)
	sc.Step(`^the store should hold (\d+) pictures?$`, s.theStoreShouldHoldPictures)
}

// Background steps

func (s *StepsContext) theGatewayIsRunning() error {
	return waitForServer(s.tc.ServerURL, 5*time.Second)
}

func (s *StepsContext) aMemberWithPasswordAndRole(user, password, role string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return err
	}
	member := &model.Member{
		UserID: user,
		Pw:     "{bcrypt}" + string(hash),
		Active: true,
		Roles:  []model.MemberRole{{UserID: user, Role: role}},
	}
	return gormstore.NewMemberStore(s.tc.DB).CreateMember(context.Background(), member)
}

func (s *StepsContext) nasaPublishesAPicture(title, date string) error {
	s.tc.Nasa.SetApod(model.Apod{
		Date:        date,
		Title:       title,
		Explanation: "Pictured is " + title + ".",
		URL:         "https://apod.nasa.gov/apod/image/" + date + ".jpg",
		Copyright:   "Jane Doe",
		MediaType:   "image",
	})
	return nil
}

func (s *StepsContext) nasaIsFailing() error {
	s.tc.Nasa.SetFailing(true)
	return nil
}

// Authentication steps

func (s *StepsContext) iAmSignedInAs(user, password string) error {
	req, err := http.NewRequest(http.MethodPost, s.tc.ServerURL+"/authenticate", nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(user, password)
	if err := s.send(req); err != nil {
		return err
	}
	if s.response.StatusCode != http.StatusOK {
		return fmt.Errorf("sign in failed with status %d: %s", s.response.StatusCode, s.responseBody)
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(s.responseBody, &body); err != nil {
		return err
	}
	s.authToken = body.Token
	return nil
}

func (s *StepsContext) iUseBasicCredentials(user, password string) error {
	s.authToken = ""
	s.basicUser, s.basicPass = user, password
	return nil
}

func (s *StepsContext) iAmNotSignedIn() error {
	s.authToken = ""
	s.basicUser, s.basicPass = "", ""
	s.session = nil
	return nil
}

func (s *StepsContext) iSignInThroughTheLoginForm(user, password string) error {
	form := url.Values{"username": {user}, "password": {password}}
	req, err := http.NewRequest(http.MethodPost, s.tc.ServerURL+"/login", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if err := s.send(req); err != nil {
		return err
	}
	for _, c := range s.response.Cookies() {
		if c.Name == "NASA_SESSION" && c.Value != "" {
			s.session = c
		}
	}
	return nil
}

// Request steps

func (s *StepsContext) iNoteTheIdOfThePicture(title string) error {
	var apod model.Apod
	if err := s.tc.DB.Where("title = ?", title).Order("id").First(&apod).Error; err != nil {
		return fmt.Errorf("picture %q not stored: %w", title, err)
	}
	s.ids[title] = apod.ID
	return nil
}

// expand replaces {Title} placeholders with the ids noted earlier
func (s *StepsContext) expand(path string) string {
	for title, id := range s.ids {
		path = strings.ReplaceAll(path, "{"+title+"}", strconv.FormatInt(id, 10))
	}
	return path
}

func (s *StepsContext) iSendARequest(method, path string) error {
	req, err := http.NewRequest(method, s.tc.ServerURL+s.expand(path), nil)
	if err != nil {
		return err
	}
	return s.send(req)
}

func (s *StepsContext) iSendAPutRequestWithBody(path string, body *godog.DocString) error {
	req, err := http.NewRequest(http.MethodPut, s.tc.ServerURL+s.expand(path), strings.NewReader(s.expand(body.Content)))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return s.send(req)
}

func (s *StepsContext) send(req *http.Request) error {
	switch {
	case s.authToken != "":
		req.Header.Set("Authorization", "Bearer "+s.authToken)
	case s.basicUser != "":
		req.SetBasicAuth(s.basicUser, s.basicPass)
	}
	if s.session != nil {
		req.AddCookie(s.session)
	}

	resp, err := s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	s.response = resp
	s.responseBody, err = io.ReadAll(resp.Body)
	return err
}

// Response steps

func (s *StepsContext) theResponseStatusShouldBe(status int) error {
	if s.response == nil {
		return fmt.Errorf("no request was sent")
	}
	if s.response.StatusCode != status {
		return fmt.Errorf("expected status %d, got %d: %s", status, s.response.StatusCode, s.responseBody)
	}
	return nil
}

func (s *StepsContext) theResponseBodyShouldBe(expected string) error {
	expected = strings.ReplaceAll(s.expand(expected), `\n`, "\n")
	if got := string(s.responseBody); got != expected {
		return fmt.Errorf("expected body %q, got %q", expected, got)
	}
	return nil
}

func (s *StepsContext) theResponseBodyShouldContain(expected string) error {
	if !bytes.Contains(s.responseBody, []byte(s.expand(expected))) {
		return fmt.Errorf("expected body to contain %q, got %q", expected, s.responseBody)
	}
	return nil
}

func (s *StepsContext) theErrorMessageShouldBe(expected string) error {
	var body struct {
		Status    int    `json:"status"`
		Message   string `json:"message"`
		Timestamp string `json:"timestamp"`
	}
	if err := json.Unmarshal(s.responseBody, &body); err != nil {
		return fmt.Errorf("response is not an error record: %w: %s", err, s.responseBody)
	}
	if body.Status != s.response.StatusCode {
		return fmt.Errorf("error record status %d does not match response status %d", body.Status, s.response.StatusCode)
	}
	if body.Timestamp == "" {
		return fmt.Errorf("error record has no timestamp")
	}
	if expected = s.expand(expected); body.Message != expected {
		return fmt.Errorf("expected message %q, got %q", expected, body.Message)
	}
	return nil
}

func (s *StepsContext) theResponseShouldRedirectTo(location string) error {
	if s.response.StatusCode != http.StatusFound {
		return fmt.Errorf("expected a redirect, got status %d", s.response.StatusCode)
	}
	if got := s.response.Header.Get("Location"); !strings.HasSuffix(got, location) {
		return fmt.Errorf("expected redirect to %q, got %q", location, got)
	}
	return nil
}

func (s *StepsContext) iShouldReceiveAValidTokenFor(user string) error {
	var body struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(s.responseBody, &body); err != nil {
		return err
	}

	key, err := jwt.ParseRSAPublicKeyFromPEM(s.tc.Server.Tokens.PublicKeyPEM())
	if err != nil {
		return err
	}
	parsed, err := jwt.Parse(body.Token, func(*jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{"RS256"}))
	if err != nil {
		return fmt.Errorf("token does not verify: %w", err)
	}
	sub, err := parsed.Claims.GetSubject()
	if err != nil {
		return err
	}
	if sub != user {
		return fmt.Errorf("expected token subject %q, got %q", user, sub)
	}
	return nil
}

func (s *StepsContext) theResponseShouldListPhotos(count int) error {
	var body model.RoverPhotos
	if err := json.Unmarshal(s.responseBody, &body); err != nil {
		return err
	}
	if len(body.Photos) != count {
		return fmt.Errorf("expected %d photos, got %d", count, len(body.Photos))
	}
	return nil
}

func (s *StepsContext) theStoreShouldHoldPictures(count int) error {
	var n int64
	if err := s.tc.DB.Model(&model.Apod{}).Count(&n).Error; err != nil {
		return err
	}
	if n != int64(count) {
		return fmt.Errorf("expected %d stored pictures, got %d", count, n)
	}
	return nil
}

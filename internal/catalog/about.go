package catalog

import (
	"net/http"

	"github.com/noah-isme/skills-enroll/internal/common"
)

// Feature is a titled blurb shown on the organisation pages.
type Feature struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Stat is a headline figure such as students trained.
type Stat struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// TeamMember describes one member of staff.
type TeamMember struct {
	Name string `json:"name"`
	Role string `json:"role"`
	Bio  string `json:"bio"`
}

// ContactInfo is the organisation's public contact block.
type ContactInfo struct {
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// About is the read-only organisation profile served next to the catalog.
type About struct {
	Organisation string       `json:"organisation"`
	Founded      int          `json:"founded"`
	Founder      string       `json:"founder"`
	Story        []string     `json:"story"`
	Stats        []Stat       `json:"stats"`
	WhyChooseUs  []Feature    `json:"whyChooseUs"`
	Values       []Feature    `json:"values"`
	Team         []TeamMember `json:"team"`
	Contact      ContactInfo  `json:"contact"`
}

// DefaultAbout returns the organisation profile.
func DefaultAbout() About {
	return About{
		Organisation: "Empowering the Nation",
		Founded:      2018,
		Founder:      "Precious Radebe",
		Story: []string{
			"Founded in 2018 by Precious Radebe, Empowering the Nation was born from watching family members struggle without formal education and skills training.",
			"Our mission is to provide accessible, high-quality training that equips individuals to secure employment, start businesses and build self-sufficient lives.",
		},
		Stats: []Stat{
			{Label: "Students Trained", Value: "500+"},
			{Label: "Courses Offered", Value: "12"},
			{Label: "Success Rate", Value: "95%"},
			{Label: "Years of Excellence", Value: "5"},
		},
		WhyChooseUs: []Feature{
			{Title: "Quality Education", Text: "Courses designed by industry experts to provide practical, real-world skills."},
			{Title: "Expert Instructors", Text: "Learn from professionals with years of experience in their fields."},
			{Title: "Community Impact", Text: "Join a movement that is uplifting communities across South Africa."},
		},
		Values: []Feature{
			{Title: "Excellence in Education", Text: "We maintain the highest standards in curriculum development and teaching methodologies."},
			{Title: "Student-Centered Approach", Text: "Every decision we make is focused on enhancing student learning and success."},
			{Title: "Passion for Empowerment", Text: "We are driven by our mission to empower individuals and transform communities."},
			{Title: "Continuous Improvement", Text: "We constantly evolve our programs to meet changing industry needs and student requirements."},
		},
		Team: []TeamMember{
			{Name: "Yashna Ramnath", Role: "App Design & Secretary", Bio: "Lead app designer and secretary with a background in UI/UX design."},
			{Name: "Jadene Naidoo", Role: "Lead Website Design & User Interface", Bio: "Responsible for the overall design and user interface of the website."},
			{Name: "Haylee Govender", Role: "Backend Developer, Website", Bio: "Manages the server side of the website."},
			{Name: "Kythera Pather", Role: "Backend Developer, App", Bio: "Builds the backend systems that support the mobile app."},
		},
		Contact: ContactInfo{
			Address: "123 Education St, Johannesburg, South Africa",
			Phone:   "+27 11 123 4567",
			Email:   "info@empoweringthenation.org.za",
		},
	}
}

// About handles GET /api/v1/about.
func (h *Handler) About(w http.ResponseWriter, _ *http.Request) {
	common.JSON(w, http.StatusOK, map[string]any{"data": h.about})
}

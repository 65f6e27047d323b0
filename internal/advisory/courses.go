package advisory

import "placement-advisor/internal/models"

// recommendationTracks maps each recommendation title to the learning track
// that serves it.
var recommendationTracks = map[string]string{
	RecAcademicExcellence: "Python Programming",
	RecBacklogClearance:   "Aptitude & Reasoning",
	RecPythonFundamentals: "Python Programming",
	RecDatabaseSQL:        "SQL & Databases",
	RecMachineLearning:    "Machine Learning",
	RecInternshipPrep:     "Internship Preparation",
	RecCommunication:      "Communication Skills",
	RecAptitude:           "Aptitude & Reasoning",
	RecDataStructures:     "Data Structures & Algorithms",
	RecCloudPractitioner:  "Cloud Computing",
	RecAdvancedFullStack:  "Web Development",
}

// CoursesFor returns the courses behind a recommendation title. A title that is
// not a known recommendation is looked up as a track name. Unknown names yield
// an empty list.
func (c *Catalog) CoursesFor(recommendation string) []models.Course {
	track, ok := recommendationTracks[recommendation]
	if !ok {
		track = recommendation
	}
	i, ok := c.trackByID[track]
	if !ok {
		return []models.Course{}
	}
	return append([]models.Course(nil), c.tracks[i].Courses...)
}

// Tracks returns every learning track in catalog order.
func (c *Catalog) Tracks() []models.CourseTrack {
	return append([]models.CourseTrack(nil), c.tracks...)
}

// CoursesByCategory regroups every course by its category. Within a category
// courses keep catalog order; a course listed under two tracks appears twice.
func (c *Catalog) CoursesByCategory() map[string][]models.Course {
	out := make(map[string][]models.Course)
	for _, t := range c.tracks {
		for _, course := range t.Courses {
			out[course.Category] = append(out[course.Category], course)
		}
	}
	return out
}

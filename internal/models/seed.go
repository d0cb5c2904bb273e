// ABOUTME: Demonstration dataset used when no snapshot exists yet.
// ABOUTME: Returned fresh on every call so callers may mutate it.

package models

import "time"

func mustTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

// DemoCourses returns the seed collection.
func DemoCourses() []Course {
	return []Course{
		{
			ID:               "course-1",
			Title:            "Modern JavaScript",
			Description:      "ES6+, practices and patterns: arrow functions, destructuring, promises, async/await.",
			Tags:             []string{"javascript", "frontend", "es6", "programming"},
			TotalLessons:     24,
			CompletedLessons: 8,
			Status:           StatusInProgress,
			Favorite:         true,
			LastUpdated:      mustTime("2024-11-28T10:30:00Z"),
		},
		{
			ID:               "course-2",
			Title:            "React from Scratch",
			Description:      "Hooks, state, routing. State management, working with APIs and optimization.",
			Tags:             []string{"react", "frontend", "hooks", "javascript"},
			TotalLessons:     30,
			CompletedLessons: 30,
			Status:           StatusCompleted,
			LastUpdated:      mustTime("2024-11-25T14:20:00Z"),
		},
		{
			ID:               "course-3",
			Title:            "SQL Fundamentals",
			Description:      "Queries, joins, indexes. Writing efficient queries and designing schemas.",
			Tags:             []string{"sql", "database", "backend", "postgresql"},
			TotalLessons:     18,
			CompletedLessons: 0,
			Status:           StatusPlanned,
			LastUpdated:      mustTime("2024-11-20T09:15:00Z"),
		},
		{
			ID:               "course-4",
			Title:            "Python for Data Analysis",
			Description:      "Pandas, NumPy, visualization. Processing data, plotting and building models.",
			Tags:             []string{"python", "data-science", "pandas", "numpy", "matplotlib"},
			TotalLessons:     28,
			CompletedLessons: 15,
			Status:           StatusInProgress,
			Favorite:         true,
			LastUpdated:      mustTime("2024-11-27T16:45:00Z"),
		},
		{
			ID:               "course-5",
			Title:            "Web Design and UX/UI",
			Description:      "Figma, prototyping, responsive design. Interface layout and usability principles.",
			Tags:             []string{"design", "ux-ui", "figma", "frontend"},
			TotalLessons:     22,
			CompletedLessons: 5,
			Status:           StatusInProgress,
			LastUpdated:      mustTime("2024-11-26T11:30:00Z"),
		},
	}
}

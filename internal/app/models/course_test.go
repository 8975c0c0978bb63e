package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCourseOverlapsWith(t *testing.T) {
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	window := func(startHour, endHour int) *Course {
		return &Course{
			StartTime: day.Add(time.Duration(startHour) * time.Hour),
			EndTime:   day.Add(time.Duration(endHour) * time.Hour),
		}
	}

	tests := []struct {
		name     string
		a, b     *Course
		overlaps bool
	}{
		{"identical windows", window(9, 11), window(9, 11), true},
		{"partial overlap", window(9, 11), window(10, 12), true},
		{"contained window", window(9, 17), window(10, 11), true},
		{"touching endpoints", window(9, 11), window(11, 13), false},
		{"disjoint", window(9, 11), window(14, 16), false},
		{"one second overlap", &Course{
			StartTime: day.Add(9 * time.Hour),
			EndTime:   day.Add(11 * time.Hour),
		}, &Course{
			StartTime: day.Add(11*time.Hour - time.Second),
			EndTime:   day.Add(13 * time.Hour),
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overlaps, tt.a.OverlapsWith(tt.b))
			// Overlap is symmetric.
			assert.Equal(t, tt.overlaps, tt.b.OverlapsWith(tt.a))
		})
	}
}

func TestRoleTypeIsValid(t *testing.T) {
	assert.True(t, RoleAdmin.IsValid())
	assert.True(t, RoleStudent.IsValid())
	assert.False(t, RoleType("INSTRUCTOR").IsValid())
}

func TestUserIsAdmin(t *testing.T) {
	assert.True(t, (&User{RoleType: RoleAdmin}).IsAdmin())
	assert.False(t, (&User{RoleType: RoleStudent}).IsAdmin())
}

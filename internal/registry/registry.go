// Package registry holds the immutable table of courses a site publishes.
package registry

import (
	"fmt"
	"path"
	"slices"
	"strings"
)

// CourseDescriptor describes one course. Values are copied out of the
// registry, so callers can never mutate the shared table.
type CourseDescriptor struct {
	Key         string // Directory name of the course, e.g. "CompTia-A-220-1201-Notes"
	DisplayName string // Full name used in structured data
	ShortName   string // Name used in breadcrumbs
	SitePath    string // Site-relative path, e.g. "CompTia/CompTia-A-220-1201-Notes"
}

// Registry is a read-only, ordered set of course descriptors.
type Registry struct {
	courses []CourseDescriptor
	byKey   map[string]int
}

// New builds a registry. Keys must be unique and every field non-empty.
// Site paths are cleaned of surrounding slashes.
func New(courses []CourseDescriptor) (*Registry, error) {
	r := &Registry{
		courses: make([]CourseDescriptor, 0, len(courses)),
		byKey:   make(map[string]int, len(courses)),
	}
	for i, c := range courses {
		c.Key = strings.TrimSpace(c.Key)
		c.SitePath = strings.Trim(path.Clean("/"+strings.TrimSpace(c.SitePath)), "/")
		switch {
		case c.Key == "":
			return nil, fmt.Errorf("course %d: key is required", i)
		case c.DisplayName == "" || c.ShortName == "":
			return nil, fmt.Errorf("course %q: name and short name are required", c.Key)
		case c.SitePath == "":
			return nil, fmt.Errorf("course %q: site path is required", c.Key)
		}
		if _, dup := r.byKey[c.Key]; dup {
			return nil, fmt.Errorf("course %q: duplicate key", c.Key)
		}
		r.byKey[c.Key] = len(r.courses)
		r.courses = append(r.courses, c)
	}
	return r, nil
}

// Default returns the built-in course table.
func Default() *Registry {
	r, err := New(DefaultCourses())
	if err != nil {
		panic(err) // static table
	}
	return r
}

// DefaultCourses returns a fresh copy of the built-in course table.
func DefaultCourses() []CourseDescriptor {
	return []CourseDescriptor{
		{"CompTia-A-220-1201-Notes", "CompTIA A+ Core 1 (220-1201)", "CompTIA A+", "CompTia/CompTia-A-220-1201-Notes"},
		{"CompTia-Network-220-1202-Notes", "CompTIA Network+ (220-1202)", "CompTIA Network+", "CompTia/CompTia-Network-220-1202-Notes"},
		{"CompTia-Security-220-1203-Notes", "CompTIA Security+ (220-1203)", "CompTIA Security+", "CompTia/CompTia-Security-220-1203-Notes"},
		{"CompTia-Cloud-220-1204-Notes", "CompTIA Cloud+ (220-1204)", "CompTIA Cloud+", "CompTia/CompTia-Cloud-220-1204-Notes"},
		{"CompTia-Server-220-1205-Notes", "CompTIA Server+ (220-1205)", "CompTIA Server+", "CompTia/CompTia-Server-220-1205-Notes"},
		{"Cisco-CCNA-210-2601-Notes", "Cisco CCNA (210-2601)", "Cisco CCNA", "Cisco/Cisco-CCNA-210-2601-Notes"},
		{"Cisco-CCNP-210-2602-Notes", "Cisco CCNP (210-2602)", "Cisco CCNP", "Cisco/Cisco-CCNP-210-2602-Notes"},
		{"Cisco-CCIE-210-2603-Notes", "Cisco CCIE (210-2603)", "Cisco CCIE", "Cisco/Cisco-CCIE-210-2603-Notes"},
	}
}

// Courses returns the descriptors in declaration order.
func (r *Registry) Courses() []CourseDescriptor {
	return slices.Clone(r.courses)
}

// Len returns the number of courses.
func (r *Registry) Len() int { return len(r.courses) }

// Lookup returns the course with the given key.
func (r *Registry) Lookup(key string) (CourseDescriptor, bool) {
	i, ok := r.byKey[key]
	if !ok {
		return CourseDescriptor{}, false
	}
	return r.courses[i], true
}

// ForPath returns the course whose site path contains the slash-separated
// path p, if any. Used to map watched file events back to a course.
func (r *Registry) ForPath(p string) (CourseDescriptor, bool) {
	p = "/" + strings.Trim(path.Clean("/"+p), "/") + "/"
	for _, c := range r.courses {
		if strings.Contains(p, "/"+c.SitePath+"/") {
			return c, true
		}
	}
	return CourseDescriptor{}, false
}

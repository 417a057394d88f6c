// Package routes registers grouped routes on a ServeMux using method patterns.
package routes

import "net/http"

// Group organizes routes under a common prefix.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Endpoint describes a registered route.
type Endpoint struct {
	Method  string `json:"method"`
	Path    string `json:"path"`
	Summary string `json:"summary,omitempty"`
}

// Register adds all routes from the given groups to the mux and returns the
// registered endpoints in registration order.
func Register(mux *http.ServeMux, groups ...Group) []Endpoint {
	var endpoints []Endpoint
	for _, group := range groups {
		endpoints = registerGroup(mux, "", group, endpoints)
	}
	return endpoints
}

func registerGroup(mux *http.ServeMux, parentPrefix string, group Group, acc []Endpoint) []Endpoint {
	fullPrefix := parentPrefix + group.Prefix
	for _, route := range group.Routes {
		path := fullPrefix + route.Pattern
		if path == "" {
			path = "/"
		}
		mux.HandleFunc(route.Method+" "+path, route.Handler)
		acc = append(acc, Endpoint{Method: route.Method, Path: path, Summary: route.Summary})
	}
	for _, child := range group.Children {
		acc = registerGroup(mux, fullPrefix, child, acc)
	}
	return acc
}

// Package formutil provides the shared page/form view-model base.
//
// When a form submission fails validation the form is re-rendered with the
// user's previously entered values echoed back, an error message, and the
// context data the form needs. Base carries the fields every page shares;
// embed it in feature view models:
//
//	type newGroupData struct {
//	    formutil.Base
//	    Title    string
//	    Subjects []subjectOption
//	}
//
//	data := newGroupData{Title: title}
//	formutil.SetBase(&data.Base, w, r, "Create Group", "/dashboard")
//	data.SetError("Title is required.")
//	templates.Render(w, r, "group_new", data)
package formutil

import (
	"html/template"
	"net/http"

	"github.com/studybuddyhq/studybuddy/internal/app/system/authz"
	"github.com/studybuddyhq/studybuddy/internal/app/system/flash"
	"github.com/dalemusser/waffle/pantry/httpnav"
)

// Base contains common fields for pages; embed it in view-model structs.
type Base struct {
	Title       string
	IsLoggedIn  bool
	UserName    string
	BackURL     string
	CurrentPath string
	Error       template.HTML
	Flashes     []flash.Message
}

// SetBase populates the common fields from the request context and drains
// any pending flash messages into the page.
func SetBase(b *Base, w http.ResponseWriter, r *http.Request, title, backDefault string) {
	name, _, signedIn := authz.UserCtx(r)
	b.Title = title
	b.IsLoggedIn = signedIn
	b.UserName = name
	b.BackURL = httpnav.ResolveBackURL(r, backDefault)
	b.CurrentPath = httpnav.CurrentPath(r)
	b.Flashes = flash.Pop(w, r)
}

// SetError sets the error message shown above the form.
func (b *Base) SetError(msg string) {
	b.Error = template.HTML(msg)
}

package route

import (
	"fmt"
	"net/http"
	"path"

	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/http/infer"
	"github.com/xy-planning-network/switchback/http/resp"
	"github.com/xy-planning-network/switchback/http/session"
	"github.com/xy-planning-network/switchback/resource"
)

// A Responder turns the record a delegate produced into an outbound response.
type Responder interface {
	Respond(w http.ResponseWriter, r *http.Request, record any, src infer.Sources) error
}

// templateResponder renders the view conventionally keyed by the
// resource's path component and the route's action,
// wrapping the record in the resource's presenter first.
//
// An absent view is not an error: the response is an empty body
// with the default status.
type templateResponder struct {
	doer   *resp.Responder
	res    *resource.Resource
	action Action
}

func (tr templateResponder) Respond(w http.ResponseWriter, r *http.Request, record any, src infer.Sources) error {
	var data any
	if tr.action.Plural() {
		data = tr.res.PresentMany(record, src)
	} else {
		data = tr.res.PresentOne(record, src)
	}

	fp := path.Join("views", tr.res.PathComponent(), tr.action.String()+".tmpl")
	opts := []resp.Fn{resp.Data(data)}
	if tr.doer.TemplateExists(fp) {
		opts = append(opts, resp.Tmpls(fp))
	}

	// NOTE(dlk): Html presents and logs its own failure states;
	// surfacing the error would write a second response on top of that one.
	tr.doer.Html(w, r, opts...)

	return nil
}

// redirectResponder writes a 303 See Other pointing at the record's
// conventional location, or the collection's when targeting a plural action.
//
// The record must be a resource.Identifiable for a singular target.
type redirectResponder struct {
	doer    *resp.Responder
	res     *resource.Resource
	target  Action
	success string
}

func (rr redirectResponder) Respond(w http.ResponseWriter, r *http.Request, record any, src infer.Sources) error {
	loc := "/" + rr.res.PathComponent()
	if !rr.target.Plural() {
		ident, ok := record.(resource.Identifiable)
		if !ok {
			return fmt.Errorf("%w: %T does not expose an ID to redirect to", switchback.ErrNotValid, record)
		}

		loc = fmt.Sprintf("%s/%d", loc, ident.GetID())
	}

	opts := []resp.Fn{resp.Url(loc), resp.Code(http.StatusSeeOther)}
	if rr.success != "" {
		opts = append(opts, resp.Flash(session.Flash{Class: session.FlashSuccess, Msg: rr.success}))
	}

	return rr.doer.Redirect(w, r, opts...)
}

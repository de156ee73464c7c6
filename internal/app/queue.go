package app

import (
	"github.com/rs/zerolog/log"

	"github.com/corey/califica/internal/domain/requests"
)

// Requests returns the request queue, newest first.
func (a *App) Requests() requests.List {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make(requests.List, len(a.requests))
	copy(out, a.requests)
	return out
}

// SubmitRequest queues a request for a new course.
func (a *App) SubmitRequest(course, details, email string) (requests.Request, error) {
	r, err := requests.New(course, details, email, a.now())
	if err != nil {
		return requests.Request{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	next := a.requests.Submit(r)
	if err := a.Store.SaveRequests(next); err != nil {
		return requests.Request{}, persistErr("submit request", err)
	}
	a.requests = next
	log.Info().Str("request_id", r.ID).Str("course", r.CourseName).Msg("course requested")
	return r, nil
}

// SetRequestStatus decides a pending request. Accepting one adds its course
// to the store in the same transaction.
func (a *App) SetRequestStatus(id string, status requests.Status) (requests.Request, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	nextReqs, r, err := a.requests.Transition(id, status)
	if err != nil {
		return requests.Request{}, err
	}
	if r.Status == a.statusOf(id) {
		return r, nil
	}

	nextStore := a.ratings
	if r.Status == requests.StatusAccepted {
		nextStore = a.ratings.Clone()
		if err := nextStore.EnsureCourse(r.CourseName); err != nil {
			return requests.Request{}, err
		}
	}
	if err := a.Store.SaveState(nextStore, nextReqs); err != nil {
		return requests.Request{}, persistErr("set request status", err)
	}
	a.ratings, a.requests = nextStore, nextReqs
	log.Info().
		Str("request_id", id).
		Str("course", r.CourseName).
		Str("status", string(r.Status)).
		Msg("request decided")
	return r, nil
}

// statusOf returns the live status of request id. Caller holds a.mu.
func (a *App) statusOf(id string) requests.Status {
	if i := a.requests.Find(id); i >= 0 {
		return a.requests[i].Status
	}
	return ""
}

package auth

import "github.com/cookzilla/cookzilla/pkg/cookzilla/models"

// Actor is whoever is making the request: a signed-in user or nobody.
// Handlers check capabilities through this interface instead of poking
// at a nullable user.
type Actor interface {
	Can(p models.Permission) bool
	IsAdministrator() bool
}

// Authenticated wraps a loaded user (with role) as an actor.
type Authenticated struct {
	User *models.User
}

func (a Authenticated) Can(p models.Permission) bool {
	return a.User.Can(p)
}

func (a Authenticated) IsAdministrator() bool {
	return a.User.IsAdministrator()
}

// Anonymous is the actor for unauthenticated requests. It can do
// nothing.
type Anonymous struct{}

func (Anonymous) Can(models.Permission) bool { return false }

func (Anonymous) IsAdministrator() bool { return false }

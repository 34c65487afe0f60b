package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

const (
	// Prefix is the base path of every JSON route.
	Prefix = "/api"

	AuthGroup      = "/auth"
	BlogGroup      = "/blog"
	ProjectsGroup  = "/projects"
	SkillsGroup    = "/skills"
	ContactGroup   = "/contact"
	ProfileGroup   = "/profile"
	DashboardGroup = "/dashboard"

	// UploadsPath is where files written by the upload store are served.
	UploadsPath = "/uploads"
)

// RoutesGroup is the fx value group route registrars are collected in.
const RoutesGroup = `group:"routes"`

// Registrar mounts a domain's routes below the /api group.
type Registrar interface {
	RegisterRoutes(api *gin.RouterGroup)
}

// AsRegistrar annotates a handler constructor so its result joins RoutesGroup.
func AsRegistrar(constructor any) any {
	return fx.Annotate(
		constructor,
		fx.As(new(Registrar)),
		fx.ResultTags(RoutesGroup),
	)
}

package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundErrorResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedErrorResponse)

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", app.healthCheckHandler)

	// user service
	router.HandlerFunc(http.MethodPost, "/api/users", app.registerUserHandler)
	router.HandlerFunc(http.MethodGet, "/api/users", app.listUsersHandler)
	router.HandlerFunc(http.MethodPost, "/api/login", app.loginUserHandler)

	// blog service
	router.HandlerFunc(http.MethodGet, "/api/blogs", app.listBlogsHandler)
	router.HandlerFunc(http.MethodPost, "/api/blogs", app.createBlogHandler)
	router.HandlerFunc(http.MethodGet, "/api/blogs/:id", app.getBlogHandler)
	router.HandlerFunc(http.MethodPut, "/api/blogs/:id", app.updateBlogHandler)
	router.HandlerFunc(http.MethodDelete, "/api/blogs/:id", app.deleteBlogHandler)
	router.HandlerFunc(http.MethodGet, "/api/stats", app.blogStatsHandler)

	// activity feed
	router.HandlerFunc(http.MethodGet, "/api/activity", app.listActivityHandler)

	return app.recoverPanic(app.logRequest(app.rateLimit(router)))
}

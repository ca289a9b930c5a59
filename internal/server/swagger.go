package server

//go:generate swag init -g internal/server/swagger.go -o internal/server/docs

// @title VulnScan Lite web API
// @version 0.1
// @description JSON endpoints of the VulnScan Lite web front end.
// @BasePath /

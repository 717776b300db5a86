package main

import "github.com/qvideo/rental-api/cmd"

// @title           qvideo rental API
// @version         1.0
// @description     Video rental catalog with role-based access control.
// @BasePath        /
// @securityDefinitions.basic  BasicAuth
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	cmd.Execute()
}

package http

import "reel-service/pkg/manager"

func init() {
	manager.RegisterControllerPlugin(&VideoControllerPlugin{})
}

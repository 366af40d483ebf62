package component

import "reel-service/pkg/manager"

func init() {
	manager.RegisterComponentPlugin(&UploadEventConsumerPlugin{})
}

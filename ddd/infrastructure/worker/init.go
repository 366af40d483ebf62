package worker

import "reel-service/pkg/manager"

func init() {
	manager.RegisterComponentPlugin(&PipelineWorkerComponentPlugin{})
}

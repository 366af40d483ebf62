package gateway

import "context"

// StorageGateway 存储网关
type StorageGateway interface {
	// Download 下载对象到本地路径
	Download(ctx context.Context, objectKey, localPath string) error

	// Upload 上传本地文件，返回可访问的对象定位符
	Upload(ctx context.Context, localPath, objectKey, contentType string) (string, error)

	// Remove 删除对象
	Remove(ctx context.Context, objectKey string) error
}

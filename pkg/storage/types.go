package storage

import (
	"fmt"
	"os"
	"path"
	"time"
)

type DiskStorage struct {
	Prefix     string
	RootFolder string
}

func NewDiskStorage(prefix, rootFolder string) *DiskStorage {
	return &DiskStorage{
		Prefix:     prefix,
		RootFolder: rootFolder,
	}
}

func (ds *DiskStorage) GetFileName(name string) (string, string) {
	fileName := path.Join(ds.RootFolder, ds.Prefix, name)
	tmpFileName := fileName + ".tmp-" + fmt.Sprintf("%d", time.Now().UnixMilli())
	return fileName, tmpFileName
}

func (ds *DiskStorage) ensureFolder() error {
	return os.MkdirAll(path.Join(ds.RootFolder, ds.Prefix), 0o755)
}

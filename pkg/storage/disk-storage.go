package storage

import (
	"compress/gzip"
	"errors"
	"io"
	"log"
	"os"

	"github.com/matst80/slask-catalog/pkg/catalog"
	"github.com/matst80/slask-catalog/pkg/common/jsoncompat"
)

const snapshotFile = "catalog.json.gz"

func (d *DiskStorage) LoadSnapshot(output *catalog.Snapshot) error {
	return d.LoadGzippedJson(output, snapshotFile)
}

func (d *DiskStorage) SaveSnapshot(snapshot catalog.Snapshot) error {
	err := d.SaveGzippedJson(snapshot, snapshotFile)
	if err == nil {
		log.Printf("saved catalog snapshot, %d system, %d shared, %d local fields", len(snapshot.System), len(snapshot.Shared), len(snapshot.Local))
	}
	return err
}

// OpenDocument opens a raw catalog document kept next to the snapshot.
func (d *DiskStorage) OpenDocument(name string) (io.ReadCloser, error) {
	fileName, _ := d.GetFileName(name)
	return os.Open(fileName)
}

func (d *DiskStorage) StreamContent(w io.Writer, name string) (int64, error) {
	file, err := d.OpenDocument(name)
	if err != nil {
		return 0, err
	}
	defer file.Close()
	return io.Copy(w, file)
}

func (d *DiskStorage) SaveGzippedJson(data any, name string) error {
	if err := d.ensureFolder(); err != nil {
		return err
	}
	fileName, tmpFileName := d.GetFileName(name)

	file, err := os.Create(tmpFileName)
	if err != nil {
		return err
	}

	zipWriter := gzip.NewWriter(file)
	if err = jsoncompat.NewEncoder(zipWriter).Encode(data); err != nil {
		_ = zipWriter.Close()
		_ = file.Close()
		_ = os.Remove(tmpFileName)
		return err
	}

	if err = zipWriter.Close(); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpFileName)
		return err
	}

	if err = file.Close(); err != nil {
		_ = os.Remove(tmpFileName)
		return err
	}

	if err = os.Rename(tmpFileName, fileName); err != nil {
		_ = os.Remove(tmpFileName)
		return err
	}
	return nil
}

func (d *DiskStorage) LoadGzippedJson(output any, name string) error {
	fileName, _ := d.GetFileName(name)
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	zipReader, err := gzip.NewReader(file)
	if err != nil {
		return err
	}
	defer zipReader.Close()

	err = jsoncompat.NewDecoder(zipReader).Decode(output)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (d *DiskStorage) SaveJson(data any, name string) error {
	if err := d.ensureFolder(); err != nil {
		return err
	}
	fileName, tmpFileName := d.GetFileName(name)

	file, err := os.Create(tmpFileName)
	if err != nil {
		return err
	}

	err = jsoncompat.NewEncoder(file).Encode(data)
	file.Close()
	if err != nil {
		_ = os.Remove(tmpFileName)
		return err
	}

	return os.Rename(tmpFileName, fileName)
}

func (d *DiskStorage) LoadJson(output any, name string) error {
	fileName, _ := d.GetFileName(name)
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	err = jsoncompat.NewDecoder(file).Decode(output)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

//go:build tinygo

package hal

import (
	"errors"
	"fmt"
	"io"
	"machine"
	"os"

	"tinygo.org/x/drivers/sdcard"
	"tinygo.org/x/tinyfs/fatfs"
)

// sdStorage mounts the FAT volume of the SD card on first use.
type sdStorage struct {
	sd  *sdcard.Device
	fat *fatfs.FATFS
}

func newSDStorage() *sdStorage { return &sdStorage{} }

func (s *sdStorage) mount() error {
	if s.fat != nil {
		return nil
	}
	sd := sdcard.New(machine.SPI1, sdSCK, sdSDO, sdSDI, sdCS)
	if err := sd.Configure(); err != nil {
		return fmt.Errorf("sd: configure: %w", err)
	}

	fat := fatfs.New(&sd).Configure(&fatfs.Config{SectorSize: fatfs.SectorSize})
	if err := fat.Mount(); err != nil {
		// Do not auto-format removable media.
		return fmt.Errorf("sd: mount: %w", err)
	}
	s.sd = &sd
	s.fat = fat
	return nil
}

func (s *sdStorage) Open(name string) (io.ReadSeeker, error) {
	if err := s.mount(); err != nil {
		return nil, err
	}
	f, err := s.fat.OpenFile(name, os.O_RDONLY)
	if err != nil {
		return nil, fmt.Errorf("sd: open %s: %w", name, err)
	}
	rs, ok := f.(io.ReadSeeker)
	if !ok {
		_ = f.Close()
		return nil, errors.New("sd: file handle is not seekable")
	}
	return rs, nil
}

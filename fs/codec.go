package fs

import (
	"bytes"
	"encoding/binary"

	"github.com/jpaulsen/simplefs/disk"
	"github.com/noxer/bytewriter"
)

// byteOrder is the single, fixed byte order used for every on-disk
// integer. SimpleFS images aren't meant to move between architectures, but
// fixing the order explicitly (rather than relying on whatever the host
// happens to be) keeps the format reproducible in tests regardless of
// what machine runs them.
var byteOrder = binary.LittleEndian

func readSuperBlock(d *disk.Disk) (SuperBlock, error) {
	var buf [disk.BlockSize]byte
	if _, err := d.ReadBlock(0, buf[:]); err != nil {
		return SuperBlock{}, err
	}

	var sb SuperBlock
	if err := binary.Read(bytes.NewReader(buf[:]), byteOrder, &sb); err != nil {
		return SuperBlock{}, err
	}
	return sb, nil
}

func writeSuperBlock(d *disk.Disk, sb SuperBlock) error {
	buf := make([]byte, disk.BlockSize)
	w := bytewriter.New(buf)
	if err := binary.Write(w, byteOrder, &sb); err != nil {
		return err
	}
	_, err := d.WriteBlock(0, buf)
	return err
}

// readInodeBlock unpacks InodesPerBlock inode records from the given
// inode-table block (1-indexed from the start of the table, i.e. physical
// block number tableBlock).
func readInodeBlock(d *disk.Disk, tableBlock uint32) ([InodesPerBlock]rawInode, error) {
	var inodes [InodesPerBlock]rawInode

	var buf [disk.BlockSize]byte
	if _, err := d.ReadBlock(tableBlock, buf[:]); err != nil {
		return inodes, err
	}

	if err := binary.Read(bytes.NewReader(buf[:]), byteOrder, &inodes); err != nil {
		return inodes, err
	}
	return inodes, nil
}

func writeInodeBlock(d *disk.Disk, tableBlock uint32, inodes [InodesPerBlock]rawInode) error {
	buf := make([]byte, disk.BlockSize)
	w := bytewriter.New(buf)
	if err := binary.Write(w, byteOrder, &inodes); err != nil {
		return err
	}
	_, err := d.WriteBlock(tableBlock, buf)
	return err
}

func readRawInode(d *disk.Disk, inumber InodeNumber) (rawInode, error) {
	tableBlock := 1 + uint32(inumber)/InodesPerBlock
	offset := uint32(inumber) % InodesPerBlock

	block, err := readInodeBlock(d, tableBlock)
	if err != nil {
		return rawInode{}, err
	}
	return block[offset], nil
}

func writeRawInode(d *disk.Disk, inumber InodeNumber, inode rawInode) error {
	tableBlock := 1 + uint32(inumber)/InodesPerBlock
	offset := uint32(inumber) % InodesPerBlock

	block, err := readInodeBlock(d, tableBlock)
	if err != nil {
		return err
	}
	block[offset] = inode
	return writeInodeBlock(d, tableBlock, block)
}

func readIndirectBlock(d *disk.Disk, block uint32) ([PointersPerBlock]uint32, error) {
	var entries [PointersPerBlock]uint32

	var buf [disk.BlockSize]byte
	if _, err := d.ReadBlock(block, buf[:]); err != nil {
		return entries, err
	}
	if err := binary.Read(bytes.NewReader(buf[:]), byteOrder, &entries); err != nil {
		return entries, err
	}
	return entries, nil
}

func writeIndirectBlock(d *disk.Disk, block uint32, entries [PointersPerBlock]uint32) error {
	buf := make([]byte, disk.BlockSize)
	w := bytewriter.New(buf)
	if err := binary.Write(w, byteOrder, &entries); err != nil {
		return err
	}
	_, err := d.WriteBlock(block, buf)
	return err
}

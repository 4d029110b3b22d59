package state

import (
	"fmt"
	"strings"
)

// NetworkContainerType identifies where database backups are read from.
type NetworkContainerType int

const (
	NetworkShareType NetworkContainerType = iota
	FileShareType
	BlobContainerType
)

// String returns the display name of the container type.
func (t NetworkContainerType) String() string {
	switch t {
	case NetworkShareType:
		return "Network Share"
	case FileShareType:
		return "File Share"
	case BlobContainerType:
		return "Blob Container"
	}
	return fmt.Sprintf("NetworkContainerType(%d)", int(t))
}

// ParseNetworkContainerType maps a configuration value to a container type.
// Case, surrounding space and dashes in place of underscores are ignored.
func ParseNetworkContainerType(s string) (NetworkContainerType, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_") {
	case "network_share":
		return NetworkShareType, nil
	case "file_share":
		return FileShareType, nil
	case "blob_container":
		return BlobContainerType, nil
	}
	return 0, fmt.Errorf("unknown network container type %q", s)
}

// Key returns the configuration value for the container type.
func (t NetworkContainerType) Key() string {
	switch t {
	case NetworkShareType:
		return "network_share"
	case FileShareType:
		return "file_share"
	case BlobContainerType:
		return "blob_container"
	}
	return ""
}

// NetworkContainerTypes lists every container type in display order.
func NetworkContainerTypes() []NetworkContainerType {
	return []NetworkContainerType{NetworkShareType, FileShareType, BlobContainerType}
}

// NetworkContainer is the backup location payload. It is implemented only by
// NetworkShare, FileShare and BlobContainer.
type NetworkContainer interface {
	Type() NetworkContainerType
	Accept(v ContainerVisitor)
	sealed()
}

// ContainerVisitor dispatches over every NetworkContainer variant. Adding a
// variant adds a method here, which breaks every visitor until it handles it.
type ContainerVisitor interface {
	VisitNetworkShare(NetworkShare)
	VisitFileShare(FileShare)
	VisitBlobContainer(BlobContainer)
}

// NetworkShare is an on-premises SMB share uploaded through storage.
type NetworkShare struct {
	NetworkShareLocation  string `yaml:"networkShareLocation"`
	WindowsUser           string `yaml:"windowsUser"`
	StorageSubscriptionID string `yaml:"storageSubscriptionId"`
	StorageAccountID      string `yaml:"storageAccountId"`
}

func (NetworkShare) Type() NetworkContainerType { return NetworkShareType }
func (n NetworkShare) Accept(v ContainerVisitor) { v.VisitNetworkShare(n) }
func (NetworkShare) sealed() {}

// FileShare is an Azure Files share holding the backups.
type FileShare struct {
	SubscriptionID   string `yaml:"subscriptionId"`
	StorageAccountID string `yaml:"storageAccountId"`
	FileShareID      string `yaml:"fileShareId"`
}

func (FileShare) Type() NetworkContainerType { return FileShareType }
func (f FileShare) Accept(v ContainerVisitor) { v.VisitFileShare(f) }
func (FileShare) sealed() {}

// BlobContainer is an Azure Blob Storage container holding the backups.
type BlobContainer struct {
	SubscriptionID   string `yaml:"subscriptionId"`
	StorageAccountID string `yaml:"storageAccountId"`
	ContainerID      string `yaml:"containerId"`
}

func (BlobContainer) Type() NetworkContainerType { return BlobContainerType }
func (b BlobContainer) Accept(v ContainerVisitor) { v.VisitBlobContainer(b) }
func (BlobContainer) sealed() {}

// NewNetworkContainer returns a zero value of the variant for t.
func NewNetworkContainer(t NetworkContainerType) NetworkContainer {
	switch t {
	case NetworkShareType:
		return NetworkShare{}
	case FileShareType:
		return FileShare{}
	case BlobContainerType:
		return BlobContainer{}
	}
	panic(fmt.Sprintf("state: no container variant for %s", t))
}

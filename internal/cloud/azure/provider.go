// Package azure provides the Azure lookups used by the migration wizard.
package azure

import (
	"context"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute/v5"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armsubscriptions"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/codebypatrickleung/sqlmi-wizard/internal/logger"
)

// Subscription is an Azure subscription visible to the signed-in account.
type Subscription struct {
	ID          string
	DisplayName string
	State       string
}

// Provider implements Azure directory and catalog lookups.
type Provider struct {
	credential    azcore.TokenCredential
	subscriptions *armsubscriptions.Client
	armOptions    *arm.ClientOptions
	logger        *logger.Logger
}

// NewProvider creates a provider authenticated with DefaultAzureCredential.
func NewProvider(log *logger.Logger, version string) (*Provider, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure credential: %w", err)
	}
	log.Debug("Created DefaultAzureCredential")
	return NewProviderWithCredential(cred, log, version, nil)
}

// NewProviderWithCredential creates a provider using cred. options may be nil.
// version is sent as the telemetry application id unless options sets one.
func NewProviderWithCredential(cred azcore.TokenCredential, log *logger.Logger, version string, options *arm.ClientOptions) (*Provider, error) {
	opts := arm.ClientOptions{}
	if options != nil {
		opts = *options
	}
	if opts.Telemetry.ApplicationID == "" && version != "" {
		opts.Telemetry.ApplicationID = "sqlmig/" + strings.TrimPrefix(version, "v")
	}
	client, err := armsubscriptions.NewClient(cred, &opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create subscriptions client: %w", err)
	}
	return &Provider{
		credential:    cred,
		subscriptions: client,
		armOptions:    &opts,
		logger:        log,
	}, nil
}

// SubscriptionName returns the display name of a subscription.
func (p *Provider) SubscriptionName(ctx context.Context, subscriptionID string) (string, error) {
	p.logger.Debugf("Resolving subscription %s", subscriptionID)
	resp, err := p.subscriptions.Get(ctx, subscriptionID, nil)
	if err != nil {
		return "", fmt.Errorf("failed to get subscription %s: %w", subscriptionID, err)
	}
	if resp.DisplayName == nil {
		return "", nil
	}
	return *resp.DisplayName, nil
}

// ListSubscriptions returns every subscription the credential can read.
func (p *Provider) ListSubscriptions(ctx context.Context) ([]Subscription, error) {
	var subs []Subscription
	pager := p.subscriptions.NewListPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list subscriptions: %w", err)
		}
		for _, s := range page.Value {
			if s == nil || s.SubscriptionID == nil {
				continue
			}
			sub := Subscription{ID: *s.SubscriptionID}
			if s.DisplayName != nil {
				sub.DisplayName = *s.DisplayName
			}
			if s.State != nil {
				sub.State = string(*s.State)
			}
			subs = append(subs, sub)
		}
	}
	p.logger.Debugf("Found %d subscriptions", len(subs))
	return subs, nil
}

// ListBlobContainers returns the container names of a storage account.
// storageAccount may be an ARM resource id or a bare account name.
func (p *Provider) ListBlobContainers(ctx context.Context, storageAccount string) ([]string, error) {
	name := StorageAccountName(storageAccount)
	if name == "" {
		return nil, fmt.Errorf("storage account is required")
	}
	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net/", name)
	opts := &azblob.ClientOptions{ClientOptions: p.armOptions.ClientOptions}
	client, err := azblob.NewClient(serviceURL, p.credential, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}
	var containers []string
	pager := client.NewListContainersPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list containers of %s: %w", name, err)
		}
		for _, c := range page.ContainerItems {
			if c.Name != nil {
				containers = append(containers, *c.Name)
			}
		}
	}
	return containers, nil
}

// ListVirtualMachines returns the VM names in a subscription, the candidate
// nodes of a self-hosted integration runtime.
func (p *Provider) ListVirtualMachines(ctx context.Context, subscriptionID string) ([]string, error) {
	clientFactory, err := armcompute.NewClientFactory(subscriptionID, p.credential, p.armOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to create compute client factory: %w", err)
	}
	var names []string
	pager := clientFactory.NewVirtualMachinesClient().NewListAllPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list virtual machines: %w", err)
		}
		for _, vm := range page.Value {
			if vm.Name != nil {
				names = append(names, *vm.Name)
			}
		}
	}
	return names, nil
}

// StorageAccountName extracts the account name from a storage account id.
// Values that are not resource ids are returned trimmed.
func StorageAccountName(storageAccount string) string {
	storageAccount = strings.TrimSpace(storageAccount)
	if rid, err := arm.ParseResourceID(storageAccount); err == nil {
		return rid.Name
	}
	return storageAccount
}

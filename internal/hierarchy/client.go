// Package hierarchy snapshots the organization's folder and project
// resources through the asset inventory API and answers existence and
// containment queries against that snapshot.
package hierarchy

import (
	"context"
	"errors"

	"github.com/go-resty/resty/v2"
)

type Client struct {
	HTTPClient *resty.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		HTTPClient: resty.New().
			SetBaseURL(baseURL).
			SetAuthScheme("Bearer").
			SetAuthToken(token).
			SetHeader("Accept", "application/json"),
	}
}

// ListAssets fetches every folder and project under the organization,
// following pagination until exhausted.
func (c *Client) ListAssets(ctx context.Context, orgID string) ([]Asset, error) {
	var assets []Asset
	pageToken := ""
	for {
		request := c.HTTPClient.R().
			SetContext(ctx).
			SetQueryParamsFromValues(map[string][]string{
				"assetTypes": {ProjectAssetType, FolderAssetType},
			}).
			SetQueryParam("contentType", "RESOURCE").
			SetResult(ListAssetsResponse{}).
			SetError(&ErrorResponse{})
		if pageToken != "" {
			request.SetQueryParam("pageToken", pageToken)
		}

		resp, err := request.Get("/v1/organizations/" + orgID + "/assets")
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, handleError(resp)
		}

		page := resp.Result().(*ListAssetsResponse)
		assets = append(assets, page.Assets...)
		if page.NextPageToken == "" {
			return assets, nil
		}
		pageToken = page.NextPageToken
	}
}

func handleError(resp *resty.Response) error {
	if errResp, ok := resp.Error().(*ErrorResponse); ok && errResp.Error.Message != "" {
		return errors.New("asset API: " + errResp.Error.Message)
	}
	return errors.New("asset API: " + resp.Status())
}

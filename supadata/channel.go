package supadata

import (
	"context"
	"net/url"
	"strconv"

	"ytscribe/models"
)

// ChannelVideos lists up to query.Limit video ids per category for a
// channel identified by handle, id, or URL. The three returned sets are
// mutually exclusive: regular videos, shorts, and live recordings.
func (c *Client) ChannelVideos(ctx context.Context, q models.ChannelQuery) (*models.ChannelListing, error) {
	query := url.Values{}
	query.Set("id", q.Identifier)
	query.Set("type", string(q.Type))
	query.Set("limit", strconv.Itoa(q.Limit))

	var listing models.ChannelListing
	if err := c.get(ctx, "/channel/videos", query, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

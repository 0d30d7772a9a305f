package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls ServiceName over an existing connection.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps cc.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) invoke(ctx context.Context, method string, req map[string]interface{}) (map[string]interface{}, error) {
	in, err := structpb.NewStruct(req)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out); err != nil {
		return nil, err
	}
	return out.AsMap(), nil
}

// GetOffer fetches one offer.
func (c *Client) GetOffer(ctx context.Context, collection string, offerID uint64) (map[string]interface{}, error) {
	return c.invoke(ctx, "GetOffer", map[string]interface{}{
		"collection": collection,
		"offer_id":   offerID,
	})
}

// GetBook fetches a book. limit 0 means the server maximum.
func (c *Client) GetBook(ctx context.Context, collection string, limit uint64) (map[string]interface{}, error) {
	req := map[string]interface{}{"collection": collection}
	if limit > 0 {
		req["limit"] = limit
	}
	return c.invoke(ctx, "GetBook", req)
}

// Submit sends a signed transaction.
func (c *Client) Submit(ctx context.Context, txJSON, pubKey, signature string) (map[string]interface{}, error) {
	return c.invoke(ctx, "Submit", map[string]interface{}{
		"tx_json":       txJSON,
		"SigningPubKey": pubKey,
		"TxnSignature":  signature,
	})
}

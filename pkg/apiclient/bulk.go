package apiclient

import "context"

// BulkResult totaliza uma operação em lote. Errors é indexado pelo ID que falhou.
type BulkResult struct {
	Succeeded int
	Failed    int
	Errors    map[string]error
}

func (r *BulkResult) record(id string, err error) {
	if err == nil {
		r.Succeeded++
		return
	}
	r.Failed++
	if r.Errors == nil {
		r.Errors = make(map[string]error)
	}
	r.Errors[id] = err
}

// bulk aplica fn a cada ID em sequência. Um cancelamento do contexto marca os IDs restantes como falha.
func bulk(ctx context.Context, ids []string, fn func(context.Context, string) error) BulkResult {
	var res BulkResult
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			res.record(id, err)
			continue
		}
		res.record(id, fn(ctx, id))
	}
	return res
}

func (c *Client) BulkDeleteWarehouses(ctx context.Context, ids []string) BulkResult {
	return bulk(ctx, ids, c.DeleteWarehouse)
}

func (c *Client) BulkDeleteProducts(ctx context.Context, ids []string) BulkResult {
	return bulk(ctx, ids, c.DeleteProduct)
}

func (c *Client) BulkDeleteCustomers(ctx context.Context, ids []string) BulkResult {
	return bulk(ctx, ids, c.DeleteCustomer)
}

func (c *Client) BulkDeleteOrders(ctx context.Context, ids []string) BulkResult {
	return bulk(ctx, ids, c.DeleteOrder)
}

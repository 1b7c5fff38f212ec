package usecase

// maxUnitsPerOrder — заказ редко содержит больше нескольких fulfillment orders.
const (
	maxUnitsPerOrder     = 10
	maxLineItemsPerUnit  = 50
	noFulfillmentIDError = "no fulfillment id returned"
)

const orderLookupQuery = `
query OrderByName($query: String!, $units: Int!, $items: Int!) {
  orders(first: 1, query: $query) {
    edges {
      node {
        id
        name
        fulfillmentOrders(first: $units) {
          edges {
            node {
              id
              status
              lineItems(first: $items) {
                edges {
                  node {
                    id
                    remainingQuantity
                  }
                }
              }
            }
          }
        }
      }
    }
  }
}`

const fulfillmentCreateMutation = `
mutation FulfillmentCreate($fulfillment: FulfillmentInput!) {
  fulfillmentCreate(fulfillment: $fulfillment) {
    fulfillment {
      id
      status
    }
    userErrors {
      field
      message
    }
  }
}`

type orderLookupData struct {
	Orders struct {
		Edges []struct {
			Node struct {
				ID                string `json:"id"`
				Name              string `json:"name"`
				FulfillmentOrders struct {
					Edges []struct {
						Node struct {
							ID        string `json:"id"`
							Status    string `json:"status"`
							LineItems struct {
								Edges []struct {
									Node struct {
										ID                string `json:"id"`
										RemainingQuantity int    `json:"remainingQuantity"`
									} `json:"node"`
								} `json:"edges"`
							} `json:"lineItems"`
						} `json:"node"`
					} `json:"edges"`
				} `json:"fulfillmentOrders"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"orders"`
}

type fulfillmentCreateData struct {
	FulfillmentCreate struct {
		Fulfillment *struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"fulfillment"`
		UserErrors []struct {
			Field   []string `json:"field"`
			Message string   `json:"message"`
		} `json:"userErrors"`
	} `json:"fulfillmentCreate"`
}

type fulfillmentInput struct {
	NotifyCustomer              bool                        `json:"notifyCustomer"`
	LineItemsByFulfillmentOrder []fulfillmentOrderLineItems `json:"lineItemsByFulfillmentOrder"`
}

type fulfillmentOrderLineItems struct {
	FulfillmentOrderID        string                 `json:"fulfillmentOrderId"`
	FulfillmentOrderLineItems []fulfillmentOrderItem `json:"fulfillmentOrderLineItems,omitempty"`
}

type fulfillmentOrderItem struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

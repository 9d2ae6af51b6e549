package service

type accountsResponse struct {
	Results []struct {
		AccountNumber string `json:"account_number"`
		URL           string `json:"url"`
		BuyingPower   string `json:"buying_power"`
		Cash          string `json:"cash"`
	} `json:"results"`
}

type instrumentsResponse struct {
	Results []struct {
		ID       string `json:"id"`
		URL      string `json:"url"`
		Symbol   string `json:"symbol"`
		Tradable bool   `json:"tradeable"`
		State    string `json:"state"`
	} `json:"results"`
}

type positionResponse struct {
	Instrument string `json:"instrument"`
	Quantity   string `json:"quantity"`
}

type quoteResponse struct {
	Symbol         string `json:"symbol"`
	LastTradePrice string `json:"last_trade_price"`
}

type orderRequest struct {
	Account     string `json:"account"`
	Instrument  string `json:"instrument"`
	Symbol      string `json:"symbol"`
	Type        string `json:"type"`
	Trigger     string `json:"trigger"`
	Quantity    string `json:"quantity"`
	Price       string `json:"price,omitempty"`
	Side        string `json:"side"`
	TimeInForce string `json:"time_in_force"`
}

type orderResponse struct {
	ID    string `json:"id"`
	State string `json:"state"`
}

package twswire

import (
	"fmt"
	"sort"
)

// IncomingKind identifies a message sent by the gateway to the client. Its
// value is the wire code carried in the first field of the payload.
type IncomingKind int32

// OutgoingKind identifies a request sent by the client to the gateway. Its
// value is the wire code carried in the first field of the payload.
type OutgoingKind int32

// Incoming message kinds. Codes are part of the protocol and must never be
// renumbered; new kinds are added with new codes.
const (
	TickPrice                            IncomingKind = 1
	TickSize                             IncomingKind = 2
	OrderStatus                          IncomingKind = 3
	ErrMsg                               IncomingKind = 4
	OpenOrder                            IncomingKind = 5
	AcctValue                            IncomingKind = 6
	PortfolioValue                       IncomingKind = 7
	AcctUpdateTime                       IncomingKind = 8
	NextValidID                          IncomingKind = 9
	ContractData                         IncomingKind = 10
	ExecutionData                        IncomingKind = 11
	MarketDepth                          IncomingKind = 12
	MarketDepthL2                        IncomingKind = 13
	NewsBulletins                        IncomingKind = 14
	ManagedAccts                         IncomingKind = 15
	ReceiveFa                            IncomingKind = 16
	HistoricalData                       IncomingKind = 17
	BondContractData                     IncomingKind = 18
	ScannerParameters                    IncomingKind = 19
	ScannerData                          IncomingKind = 20
	TickOptionComputation                IncomingKind = 21
	TickGeneric                          IncomingKind = 45
	TickString                           IncomingKind = 46
	TickEfp                              IncomingKind = 47
	CurrentTime                          IncomingKind = 49
	RealTimeBars                         IncomingKind = 50
	FundamentalData                      IncomingKind = 51
	ContractDataEnd                      IncomingKind = 52
	OpenOrderEnd                         IncomingKind = 53
	AcctDownloadEnd                      IncomingKind = 54
	ExecutionDataEnd                     IncomingKind = 55
	DeltaNeutralValidation               IncomingKind = 56
	TickSnapshotEnd                      IncomingKind = 57
	MarketDataType                       IncomingKind = 58
	CommissionReport                     IncomingKind = 59
	PositionData                         IncomingKind = 61
	PositionEnd                          IncomingKind = 62
	AccountSummary                       IncomingKind = 63
	AccountSummaryEnd                    IncomingKind = 64
	VerifyMessageAPI                     IncomingKind = 65
	VerifyCompleted                      IncomingKind = 66
	DisplayGroupList                     IncomingKind = 67
	DisplayGroupUpdated                  IncomingKind = 68
	VerifyAndAuthMessageAPI              IncomingKind = 69
	VerifyAndAuthCompleted               IncomingKind = 70
	PositionMulti                        IncomingKind = 71
	PositionMultiEnd                     IncomingKind = 72
	AccountUpdateMulti                   IncomingKind = 73
	AccountUpdateMultiEnd                IncomingKind = 74
	SecurityDefinitionOptionParameter    IncomingKind = 75
	SecurityDefinitionOptionParameterEnd IncomingKind = 76
	SoftDollarTiers                      IncomingKind = 77
	FamilyCodes                          IncomingKind = 78
	SymbolSamples                        IncomingKind = 79
	MktDepthExchanges                    IncomingKind = 80
	TickReqParams                        IncomingKind = 81
	SmartComponents                      IncomingKind = 82
	NewsArticle                          IncomingKind = 83
	TickNews                             IncomingKind = 84
	NewsProviders                        IncomingKind = 85
	HistoricalNews                       IncomingKind = 86
	HistoricalNewsEnd                    IncomingKind = 87
	HeadTimestamp                        IncomingKind = 88
	HistogramData                        IncomingKind = 89
	HistoricalDataUpdate                 IncomingKind = 90
	RerouteMktDataReq                    IncomingKind = 91
	RerouteMktDepthReq                   IncomingKind = 92
	MarketRule                           IncomingKind = 93
	Pnl                                  IncomingKind = 94
	PnlSingle                            IncomingKind = 95
	HistoricalTicks                      IncomingKind = 96
	HistoricalTicksBidAsk                IncomingKind = 97
	HistoricalTicksLast                  IncomingKind = 98
	TickByTick                           IncomingKind = 99
	OrderBound                           IncomingKind = 100
	CompletedOrder                       IncomingKind = 101
	CompletedOrdersEnd                   IncomingKind = 102
)

// Outgoing message kinds. The code space is independent from IncomingKind.
const (
	ReqMktData                 OutgoingKind = 1
	CancelMktData              OutgoingKind = 2
	PlaceOrder                 OutgoingKind = 3
	CancelOrder                OutgoingKind = 4
	ReqOpenOrders              OutgoingKind = 5
	ReqAcctData                OutgoingKind = 6
	ReqExecutions              OutgoingKind = 7
	ReqIDs                     OutgoingKind = 8
	ReqContractData            OutgoingKind = 9
	ReqMktDepth                OutgoingKind = 10
	CancelMktDepth             OutgoingKind = 11
	ReqNewsBulletins           OutgoingKind = 12
	CancelNewsBulletins        OutgoingKind = 13
	SetServerLoglevel          OutgoingKind = 14
	ReqAutoOpenOrders          OutgoingKind = 15
	ReqAllOpenOrders           OutgoingKind = 16
	ReqManagedAccts            OutgoingKind = 17
	ReqFa                      OutgoingKind = 18
	ReplaceFa                  OutgoingKind = 19
	ReqHistoricalData          OutgoingKind = 20
	ExerciseOptions            OutgoingKind = 21
	ReqScannerSubscription     OutgoingKind = 22
	CancelScannerSubscription  OutgoingKind = 23
	ReqScannerParameters       OutgoingKind = 24
	CancelHistoricalData       OutgoingKind = 25
	ReqCurrentTime             OutgoingKind = 49
	ReqRealTimeBars            OutgoingKind = 50
	CancelRealTimeBars         OutgoingKind = 51
	ReqFundamentalData         OutgoingKind = 52
	CancelFundamentalData      OutgoingKind = 53
	ReqCalcImpliedVolat        OutgoingKind = 54
	ReqCalcOptionPrice         OutgoingKind = 55
	CancelCalcImpliedVolat     OutgoingKind = 56
	CancelCalcOptionPrice      OutgoingKind = 57
	ReqGlobalCancel            OutgoingKind = 58
	ReqMarketDataType          OutgoingKind = 59
	ReqPositions               OutgoingKind = 61
	ReqAccountSummary          OutgoingKind = 62
	CancelAccountSummary       OutgoingKind = 63
	CancelPositions            OutgoingKind = 64
	VerifyRequest              OutgoingKind = 65
	VerifyMessage              OutgoingKind = 66
	QueryDisplayGroups         OutgoingKind = 67
	SubscribeToGroupEvents     OutgoingKind = 68
	UpdateDisplayGroup         OutgoingKind = 69
	UnsubscribeFromGroupEvents OutgoingKind = 70
	StartAPI                   OutgoingKind = 71
	VerifyAndAuthRequest       OutgoingKind = 72
	VerifyAndAuthMessage       OutgoingKind = 73
	ReqPositionsMulti          OutgoingKind = 74
	CancelPositionsMulti       OutgoingKind = 75
	ReqAccountUpdatesMulti     OutgoingKind = 76
	CancelAccountUpdatesMulti  OutgoingKind = 77
	ReqSecDefOptParams         OutgoingKind = 78
	ReqSoftDollarTiers         OutgoingKind = 79
	ReqFamilyCodes             OutgoingKind = 80
	ReqMatchingSymbols         OutgoingKind = 81
	ReqMktDepthExchanges       OutgoingKind = 82
	ReqSmartComponents         OutgoingKind = 83
	ReqNewsArticle             OutgoingKind = 84
	ReqNewsProviders           OutgoingKind = 85
	ReqHistoricalNews          OutgoingKind = 86
	ReqHeadTimestamp           OutgoingKind = 87
	ReqHistogramData           OutgoingKind = 88
	CancelHistogramData        OutgoingKind = 89
	CancelHeadTimestamp        OutgoingKind = 90
	ReqMarketRule              OutgoingKind = 91
	ReqPnl                     OutgoingKind = 92
	CancelPnl                  OutgoingKind = 93
	ReqPnlSingle               OutgoingKind = 94
	CancelPnlSingle            OutgoingKind = 95
	ReqHistoricalTicks         OutgoingKind = 96
	ReqTickByTickData          OutgoingKind = 97
	CancelTickByTickData       OutgoingKind = 98
	ReqCompletedOrders         OutgoingKind = 99
)

var incomingKindNames = map[IncomingKind]string{
	TickPrice:                            "TickPrice",
	TickSize:                             "TickSize",
	OrderStatus:                          "OrderStatus",
	ErrMsg:                               "ErrMsg",
	OpenOrder:                            "OpenOrder",
	AcctValue:                            "AcctValue",
	PortfolioValue:                       "PortfolioValue",
	AcctUpdateTime:                       "AcctUpdateTime",
	NextValidID:                          "NextValidID",
	ContractData:                         "ContractData",
	ExecutionData:                        "ExecutionData",
	MarketDepth:                          "MarketDepth",
	MarketDepthL2:                        "MarketDepthL2",
	NewsBulletins:                        "NewsBulletins",
	ManagedAccts:                         "ManagedAccts",
	ReceiveFa:                            "ReceiveFa",
	HistoricalData:                       "HistoricalData",
	BondContractData:                     "BondContractData",
	ScannerParameters:                    "ScannerParameters",
	ScannerData:                          "ScannerData",
	TickOptionComputation:                "TickOptionComputation",
	TickGeneric:                          "TickGeneric",
	TickString:                           "TickString",
	TickEfp:                              "TickEfp",
	CurrentTime:                          "CurrentTime",
	RealTimeBars:                         "RealTimeBars",
	FundamentalData:                      "FundamentalData",
	ContractDataEnd:                      "ContractDataEnd",
	OpenOrderEnd:                         "OpenOrderEnd",
	AcctDownloadEnd:                      "AcctDownloadEnd",
	ExecutionDataEnd:                     "ExecutionDataEnd",
	DeltaNeutralValidation:               "DeltaNeutralValidation",
	TickSnapshotEnd:                      "TickSnapshotEnd",
	MarketDataType:                       "MarketDataType",
	CommissionReport:                     "CommissionReport",
	PositionData:                         "PositionData",
	PositionEnd:                          "PositionEnd",
	AccountSummary:                       "AccountSummary",
	AccountSummaryEnd:                    "AccountSummaryEnd",
	VerifyMessageAPI:                     "VerifyMessageAPI",
	VerifyCompleted:                      "VerifyCompleted",
	DisplayGroupList:                     "DisplayGroupList",
	DisplayGroupUpdated:                  "DisplayGroupUpdated",
	VerifyAndAuthMessageAPI:              "VerifyAndAuthMessageAPI",
	VerifyAndAuthCompleted:               "VerifyAndAuthCompleted",
	PositionMulti:                        "PositionMulti",
	PositionMultiEnd:                     "PositionMultiEnd",
	AccountUpdateMulti:                   "AccountUpdateMulti",
	AccountUpdateMultiEnd:                "AccountUpdateMultiEnd",
	SecurityDefinitionOptionParameter:    "SecurityDefinitionOptionParameter",
	SecurityDefinitionOptionParameterEnd: "SecurityDefinitionOptionParameterEnd",
	SoftDollarTiers:                      "SoftDollarTiers",
	FamilyCodes:                          "FamilyCodes",
	SymbolSamples:                        "SymbolSamples",
	MktDepthExchanges:                    "MktDepthExchanges",
	TickReqParams:                        "TickReqParams",
	SmartComponents:                      "SmartComponents",
	NewsArticle:                          "NewsArticle",
	TickNews:                             "TickNews",
	NewsProviders:                        "NewsProviders",
	HistoricalNews:                       "HistoricalNews",
	HistoricalNewsEnd:                    "HistoricalNewsEnd",
	HeadTimestamp:                        "HeadTimestamp",
	HistogramData:                        "HistogramData",
	HistoricalDataUpdate:                 "HistoricalDataUpdate",
	RerouteMktDataReq:                    "RerouteMktDataReq",
	RerouteMktDepthReq:                   "RerouteMktDepthReq",
	MarketRule:                           "MarketRule",
	Pnl:                                  "Pnl",
	PnlSingle:                            "PnlSingle",
	HistoricalTicks:                      "HistoricalTicks",
	HistoricalTicksBidAsk:                "HistoricalTicksBidAsk",
	HistoricalTicksLast:                  "HistoricalTicksLast",
	TickByTick:                           "TickByTick",
	OrderBound:                           "OrderBound",
	CompletedOrder:                       "CompletedOrder",
	CompletedOrdersEnd:                   "CompletedOrdersEnd",
}

var outgoingKindNames = map[OutgoingKind]string{
	ReqMktData:                 "ReqMktData",
	CancelMktData:              "CancelMktData",
	PlaceOrder:                 "PlaceOrder",
	CancelOrder:                "CancelOrder",
	ReqOpenOrders:              "ReqOpenOrders",
	ReqAcctData:                "ReqAcctData",
	ReqExecutions:              "ReqExecutions",
	ReqIDs:                     "ReqIDs",
	ReqContractData:            "ReqContractData",
	ReqMktDepth:                "ReqMktDepth",
	CancelMktDepth:             "CancelMktDepth",
	ReqNewsBulletins:           "ReqNewsBulletins",
	CancelNewsBulletins:        "CancelNewsBulletins",
	SetServerLoglevel:          "SetServerLoglevel",
	ReqAutoOpenOrders:          "ReqAutoOpenOrders",
	ReqAllOpenOrders:           "ReqAllOpenOrders",
	ReqManagedAccts:            "ReqManagedAccts",
	ReqFa:                      "ReqFa",
	ReplaceFa:                  "ReplaceFa",
	ReqHistoricalData:          "ReqHistoricalData",
	ExerciseOptions:            "ExerciseOptions",
	ReqScannerSubscription:     "ReqScannerSubscription",
	CancelScannerSubscription:  "CancelScannerSubscription",
	ReqScannerParameters:       "ReqScannerParameters",
	CancelHistoricalData:       "CancelHistoricalData",
	ReqCurrentTime:             "ReqCurrentTime",
	ReqRealTimeBars:            "ReqRealTimeBars",
	CancelRealTimeBars:         "CancelRealTimeBars",
	ReqFundamentalData:         "ReqFundamentalData",
	CancelFundamentalData:      "CancelFundamentalData",
	ReqCalcImpliedVolat:        "ReqCalcImpliedVolat",
	ReqCalcOptionPrice:         "ReqCalcOptionPrice",
	CancelCalcImpliedVolat:     "CancelCalcImpliedVolat",
	CancelCalcOptionPrice:      "CancelCalcOptionPrice",
	ReqGlobalCancel:            "ReqGlobalCancel",
	ReqMarketDataType:          "ReqMarketDataType",
	ReqPositions:               "ReqPositions",
	ReqAccountSummary:          "ReqAccountSummary",
	CancelAccountSummary:       "CancelAccountSummary",
	CancelPositions:            "CancelPositions",
	VerifyRequest:              "VerifyRequest",
	VerifyMessage:              "VerifyMessage",
	QueryDisplayGroups:         "QueryDisplayGroups",
	SubscribeToGroupEvents:     "SubscribeToGroupEvents",
	UpdateDisplayGroup:         "UpdateDisplayGroup",
	UnsubscribeFromGroupEvents: "UnsubscribeFromGroupEvents",
	StartAPI:                   "StartAPI",
	VerifyAndAuthRequest:       "VerifyAndAuthRequest",
	VerifyAndAuthMessage:       "VerifyAndAuthMessage",
	ReqPositionsMulti:          "ReqPositionsMulti",
	CancelPositionsMulti:       "CancelPositionsMulti",
	ReqAccountUpdatesMulti:     "ReqAccountUpdatesMulti",
	CancelAccountUpdatesMulti:  "CancelAccountUpdatesMulti",
	ReqSecDefOptParams:         "ReqSecDefOptParams",
	ReqSoftDollarTiers:         "ReqSoftDollarTiers",
	ReqFamilyCodes:             "ReqFamilyCodes",
	ReqMatchingSymbols:         "ReqMatchingSymbols",
	ReqMktDepthExchanges:       "ReqMktDepthExchanges",
	ReqSmartComponents:         "ReqSmartComponents",
	ReqNewsArticle:             "ReqNewsArticle",
	ReqNewsProviders:           "ReqNewsProviders",
	ReqHistoricalNews:          "ReqHistoricalNews",
	ReqHeadTimestamp:           "ReqHeadTimestamp",
	ReqHistogramData:           "ReqHistogramData",
	CancelHistogramData:        "CancelHistogramData",
	CancelHeadTimestamp:        "CancelHeadTimestamp",
	ReqMarketRule:              "ReqMarketRule",
	ReqPnl:                     "ReqPnl",
	CancelPnl:                  "CancelPnl",
	ReqPnlSingle:               "ReqPnlSingle",
	CancelPnlSingle:            "CancelPnlSingle",
	ReqHistoricalTicks:         "ReqHistoricalTicks",
	ReqTickByTickData:          "ReqTickByTickData",
	CancelTickByTickData:       "CancelTickByTickData",
	ReqCompletedOrders:         "ReqCompletedOrders",
}

var (
	incomingKinds = sortedKinds(incomingKindNames)
	outgoingKinds = sortedKinds(outgoingKindNames)
)

func sortedKinds[K ~int32](names map[K]string) []K {
	kinds := make([]K, 0, len(names))
	for k := range names {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// IncomingKindOf returns the incoming kind registered for code. For codes
// this package does not know, which newer gateways may send, it returns
// (0, false); callers should skip such messages rather than fail.
func IncomingKindOf(code int32) (IncomingKind, bool) {
	k := IncomingKind(code)
	if _, ok := incomingKindNames[k]; !ok {
		return 0, false
	}
	return k, true
}

// OutgoingKindOf returns the outgoing kind registered for code, or
// (0, false) if there is none.
func OutgoingKindOf(code int32) (OutgoingKind, bool) {
	k := OutgoingKind(code)
	if _, ok := outgoingKindNames[k]; !ok {
		return 0, false
	}
	return k, true
}

// IncomingKinds returns every known incoming kind ordered by code.
func IncomingKinds() []IncomingKind {
	return append([]IncomingKind(nil), incomingKinds...)
}

// OutgoingKinds returns every known outgoing kind ordered by code.
func OutgoingKinds() []OutgoingKind {
	return append([]OutgoingKind(nil), outgoingKinds...)
}

// Code returns the wire code of k.
func (k IncomingKind) Code() int32 { return int32(k) }

// Code returns the wire code of k.
func (k OutgoingKind) Code() int32 { return int32(k) }

func (k IncomingKind) String() string {
	if name, ok := incomingKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", int32(k))
}

func (k OutgoingKind) String() string {
	if name, ok := outgoingKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", int32(k))
}

// FADataType selects the financial-advisor configuration carried by ReqFa,
// ReplaceFa and ReceiveFa. It travels as an integer field after the version.
type FADataType int32

const (
	FAGroups   FADataType = 1
	FAProfiles FADataType = 2
	FAAliases  FADataType = 3
)

// FADataTypeOf returns the data type for code, or (0, false) if code is not
// one of FAGroups, FAProfiles or FAAliases.
func FADataTypeOf(code int32) (FADataType, bool) {
	t := FADataType(code)
	switch t {
	case FAGroups, FAProfiles, FAAliases:
		return t, true
	}
	return 0, false
}

// Code returns the wire code of t.
func (t FADataType) Code() int32 { return int32(t) }

func (t FADataType) String() string {
	switch t {
	case FAGroups:
		return "Groups"
	case FAProfiles:
		return "Profiles"
	case FAAliases:
		return "Aliases"
	}
	return fmt.Sprintf("Unknown(%d)", int32(t))
}

package main

import (
	"context"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/dealdeskai/dealdesk/client"
)

func newAuctionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auction",
		Short: "Manage auctions",
	}
	cmd.AddCommand(auctionCreateCmd())
	cmd.AddCommand(auctionGetCmd())
	cmd.AddCommand(auctionListCmd())
	cmd.AddCommand(auctionLeaderboardCmd())
	cmd.AddCommand(auctionCloseCmd())
	return cmd
}

func parseDec(name, s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		fatal("parse "+name, err)
	}
	return d
}

func auctionCreateCmd() *cobra.Command {
	var auctionType, loanName string
	var lotSize, minBid, increment, reserve string
	var durationHours int
	var endTime string
	cmd := &cobra.Command{
		Use:   "create <analysis-id>",
		Short: "Create an auction for an analyzed loan",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.CreateAuctionRequest{
				AnalysisID:    args[0],
				LoanName:      loanName,
				Type:          auctionType,
				LotSize:       parseDec("lot-size", lotSize),
				MinBid:        parseDec("min-bid", minBid),
				BidIncrement:  parseDec("increment", increment),
				ReservePrice:  parseDec("reserve", reserve),
				DurationHours: durationHours,
			}
			if endTime != "" {
				t, err := time.Parse(time.RFC3339, endTime)
				if err != nil {
					fatal("parse end-time", err)
				}
				req.EndTime = &t
			}
			a, err := apiClient.Auctions.Create(context.Background(), req)
			if err != nil {
				fatal("create auction", err)
			}
			output(a, a.ID)
		},
	}
	cmd.Flags().StringVar(&auctionType, "type", "english", "Auction type: english|sealed_bid")
	cmd.Flags().StringVar(&loanName, "loan", "", "Loan name (defaults from the analysis)")
	cmd.Flags().StringVar(&lotSize, "lot-size", "", "Lot size")
	cmd.Flags().StringVar(&minBid, "min-bid", "", "Minimum bid")
	cmd.Flags().StringVar(&increment, "increment", "", "Bid increment (English auctions)")
	cmd.Flags().StringVar(&reserve, "reserve", "", "Reserve price")
	cmd.Flags().IntVar(&durationHours, "hours", 0, "Auction duration in hours (default 24)")
	cmd.Flags().StringVar(&endTime, "end-time", "", "Explicit end time (RFC3339)")
	return cmd
}

func auctionGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get an auction by ID",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			a, err := apiClient.Auctions.Get(context.Background(), args[0])
			if err != nil {
				fatal("get auction", err)
			}
			output(a, a.ID)
		},
	}
}

func auctionListCmd() *cobra.Command {
	var status, auctionType, analysisID string
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List auctions",
		Run: func(cmd *cobra.Command, args []string) {
			auctions, hasMore, err := apiClient.Auctions.List(context.Background(), &client.AuctionListOptions{
				AnalysisID: analysisID,
				Status:     status,
				Type:       auctionType,
				Limit:      limit,
				Offset:     offset,
			})
			if err != nil {
				fatal("list auctions", err)
			}
			if flagFmt == "table" {
				rows := make([][]string, 0, len(auctions))
				for _, a := range auctions {
					rows = append(rows, []string{
						a.ID, a.LoanName, a.Type, a.Status,
						a.MinBid.String(), a.EndTime.Format(time.RFC3339),
					})
				}
				formatTable([]string{"ID", "LOAN", "TYPE", "STATUS", "MIN BID", "ENDS"}, rows)
				return
			}
			output(map[string]any{"auctions": auctions, "has_more": hasMore}, "")
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Filter by status: pending|active|closed")
	cmd.Flags().StringVar(&auctionType, "type", "", "Filter by type: english|sealed_bid")
	cmd.Flags().StringVar(&analysisID, "analysis", "", "Filter by analysis ID")
	cmd.Flags().IntVar(&limit, "limit", 50, "Page size")
	cmd.Flags().IntVar(&offset, "offset", 0, "Page offset")
	return cmd
}

func auctionLeaderboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard <id>",
		Short: "Show the ranked top bids for an English auction",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			entries, err := apiClient.Auctions.Leaderboard(context.Background(), args[0])
			if err != nil {
				fatal("get leaderboard", err)
			}
			if flagFmt == "table" {
				rows := make([][]string, 0, len(entries))
				for _, e := range entries {
					rows = append(rows, []string{
						strconv.Itoa(e.Rank), e.BidderName, e.Amount.String(),
						e.Timestamp.Format(time.RFC3339),
					})
				}
				formatTable([]string{"RANK", "BIDDER", "AMOUNT", "TIME"}, rows)
				return
			}
			output(map[string]any{"leaderboard": entries}, "")
		},
	}
}

func auctionCloseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "close <id>",
		Short: "Close an auction and resolve its winner",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			result, err := apiClient.Auctions.Close(context.Background(), args[0])
			if err != nil {
				fatal("close auction", err)
			}
			output(result, result.Outcome)
		},
	}
}

package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/dealdeskai/dealdesk/client"
)

func newBidCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bid",
		Short: "Place and list bids",
	}
	cmd.AddCommand(bidPlaceCmd())
	cmd.AddCommand(bidListCmd())
	return cmd
}

func bidPlaceCmd() *cobra.Command {
	var bidderID, bidderName, amount string
	cmd := &cobra.Command{
		Use:   "place <auction-id>",
		Short: "Place a bid on an auction",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			b, err := apiClient.Auctions.PlaceBid(context.Background(), args[0], &client.PlaceBidRequest{
				BidderID:   bidderID,
				BidderName: bidderName,
				Amount:     parseDec("amount", amount),
			})
			if err != nil {
				fatal("place bid", err)
			}
			output(b, b.ID)
		},
	}
	cmd.Flags().StringVar(&bidderID, "bidder", "", "Bidder ID (required)")
	cmd.Flags().StringVar(&bidderName, "name", "", "Bidder display name (required)")
	cmd.Flags().StringVar(&amount, "amount", "", "Bid amount (required)")
	_ = cmd.MarkFlagRequired("bidder")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func bidListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <auction-id>",
		Short: "List bids on an auction",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			bids, err := apiClient.Auctions.ListBids(context.Background(), args[0])
			if err != nil {
				fatal("list bids", err)
			}
			if flagFmt == "table" {
				rows := make([][]string, 0, len(bids))
				for _, b := range bids {
					winning := ""
					if b.IsWinning {
						winning = "yes"
					}
					rows = append(rows, []string{
						b.ID, b.BidderName, b.Amount.String(), winning,
						b.Timestamp.Format(time.RFC3339),
					})
				}
				formatTable([]string{"ID", "BIDDER", "AMOUNT", "WINNING", "TIME"}, rows)
				return
			}
			output(map[string]any{"bids": bids}, "")
		},
	}
}

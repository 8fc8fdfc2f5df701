package cli

import (
	"math"

	"github.com/spf13/cobra"
	"k8s.io/apimachinery/pkg/labels"
)

func newSnapshotCmd() *cobra.Command {
	var selector string

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Print positioning data and handlers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			rep := s.report()
			if selector != "" {
				sel, err := labels.Parse(selector)
				if err != nil {
					return err
				}
				rep.Selected = s.model.HandlersByLabel(sel)
			}
			return s.write(rep)
		},
	}
	cmd.Flags().StringVarP(&selector, "selector", "l", "", "only list handlers matching this label selector")
	return cmd
}

func newMoveCmd() *cobra.Command {
	var (
		handler  int
		position float64
	)

	cmd := &cobra.Command{
		Use:   "move",
		Short: "Request a relative position (0..1) for a handler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			if _, err := s.model.RequestPositionChange(handler, position); err != nil {
				return err
			}
			return s.write(s.report())
		},
	}
	cmd.Flags().IntVar(&handler, "handler", 0, "handler index")
	cmd.Flags().Float64VarP(&position, "position", "p", 0, "relative position between 0 and 1")
	_ = cmd.MarkFlagRequired("position")
	return cmd
}

func newAddCmd() *cobra.Command {
	var (
		index    float64
		labelStr string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a handler on the first free slot at or after an item index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			l, err := labels.ConvertSelectorToLabelsMap(labelStr)
			if err != nil {
				return err
			}
			added, err := s.model.AddHandlerWithLabels(index, l)
			if err != nil {
				return err
			}
			rep := s.report()
			rep.Added = &added
			return s.write(rep)
		},
	}
	cmd.Flags().Float64Var(&index, "index", 0, "preferred item index")
	cmd.Flags().StringVar(&labelStr, "labels", "", "handler labels, e.g. role=to")
	return cmd
}

func newRemoveCmd() *cobra.Command {
	var handler int

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove a handler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			if _, err := s.model.RemoveHandler(handler); err != nil {
				return err
			}
			return s.write(s.report())
		},
	}
	cmd.Flags().IntVar(&handler, "handler", 0, "handler index")
	_ = cmd.MarkFlagRequired("handler")
	return cmd
}

func newBoundsCmd() *cobra.Command {
	var lo, hi, step float64

	cmd := &cobra.Command{
		Use:   "bounds",
		Short: "Change min, max or step and re-quantize the handlers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			logger := loggerFromContext(cmd.Context())

			min, max := math.NaN(), math.NaN()
			if cmd.Flags().Changed("min") {
				min = lo
			}
			if cmd.Flags().Changed("max") {
				max = hi
			}
			s.model.SetRange(min, max)
			if cmd.Flags().Changed("step") {
				s.model.SetStep(step)
			}
			for _, r := range s.removed {
				logger.Warn("handler removed", "handler", r.HandlerIndex, "itemIndex", r.ItemIndex)
			}
			return s.write(s.report())
		},
	}
	cmd.Flags().Float64Var(&lo, "min", 0, "new minimum")
	cmd.Flags().Float64Var(&hi, "max", 0, "new maximum")
	cmd.Flags().Float64Var(&step, "step", 0, "new step")
	return cmd
}

// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	ConfigFlagName = "config"
	KeyFlagName    = "key"
	NameFlagName   = "name"
)

const ENV_PREFIX = "ABR"

func BindFlags(rootCMD *cobra.Command) {
	rootCMD.PersistentFlags().String(ConfigFlagName, ".", "Path to JSON configuration file or \"env\" to read it from the environment")
	_ = viper.BindPFlag(ConfigFlagName, rootCMD.PersistentFlags().Lookup(ConfigFlagName))

	rootCMD.PersistentFlags().String(KeyFlagName, "", "Hex encoded signer key overriding the key of local signers")
	_ = viper.BindPFlag(KeyFlagName, rootCMD.PersistentFlags().Lookup(KeyFlagName))

	rootCMD.PersistentFlags().String(NameFlagName, "", "relayer name")
	_ = viper.BindPFlag(NameFlagName, rootCMD.PersistentFlags().Lookup(NameFlagName))
}
